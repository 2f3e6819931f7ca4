package decode

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateplayer/slate/internal/frame"
)

type fakeProducer struct {
	frames []*frame.Frame
	closed bool
}

func (p *fakeProducer) Next() (*frame.Frame, error) {
	if len(p.frames) == 0 {
		return nil, io.EOF
	}
	f := p.frames[0]
	p.frames = p.frames[1:]
	return f, nil
}

func (p *fakeProducer) Close() error {
	p.closed = true
	return nil
}

type fakeBackend struct {
	name string
	err  error
	info Info
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Open(ctx context.Context, path string) (FrameProducer, Info, error) {
	if b.err != nil {
		return nil, Info{}, b.err
	}
	return &fakeProducer{}, b.info, nil
}

func TestSelector_FirstBackendWins(t *testing.T) {
	first := &fakeBackend{name: "first", info: Info{Width: 10, Height: 10}}
	second := &fakeBackend{name: "second", info: Info{Width: 99, Height: 99}}

	sel := NewSelector(first, second)
	prod, info, err := sel.Open(context.Background(), "/media/a.mp4")
	require.NoError(t, err)
	defer func() { _ = prod.Close() }()

	assert.Equal(t, 10, info.Width)
}

func TestSelector_FallsThroughOnError(t *testing.T) {
	broken := &fakeBackend{name: "broken", err: errors.New("unsupported container")}
	working := &fakeBackend{name: "working", info: Info{Width: 10, Height: 10}}

	sel := NewSelector(broken, working)
	prod, info, err := sel.Open(context.Background(), "/media/a.mp4")
	require.NoError(t, err)
	defer func() { _ = prod.Close() }()

	assert.Equal(t, 10, info.Width)
}

func TestSelector_AllBackendsFail(t *testing.T) {
	sel := NewSelector(&fakeBackend{name: "broken", err: errors.New("nope")})
	_, _, err := sel.Open(context.Background(), "/media/a.mp4")
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestSelector_NoBackends(t *testing.T) {
	_, _, err := NewSelector().Open(context.Background(), "/media/a.mp4")
	assert.ErrorIs(t, err, ErrNoBackend)
}
