package comobj

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

var (
	iidCalc  = guid.ForInterface("comobj_test", "ICalc")
	iidOther = guid.ForInterface("comobj_test", "IOther")
)

type fakeObject struct {
	destroyed atomic.Int32
}

func (*fakeObject) Capabilities() []Capability {
	return []Capability{{IID: iidCalc, Name: "ICalc"}}
}

func (o *fakeObject) Destroy() { o.destroyed.Add(1) }

type sliceObject []int

func (sliceObject) Capabilities() []Capability { return nil }

func TestPassAssignsIdentity(t *testing.T) {
	arena := NewArena()
	a, b := &fakeObject{}, &fakeObject{}

	ha, err := arena.Pass(a)
	require.NoError(t, err)
	hb, err := arena.Pass(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha.Identity(), hb.Identity())
	assert.Equal(t, IIDUnknown, ha.IID())

	again, err := arena.Pass(a)
	require.NoError(t, err)
	assert.True(t, again.Same(ha))

	n, err := ha.RefCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)
	assert.Equal(t, 2, arena.Live())
}

func TestPassRejects(t *testing.T) {
	arena := NewArena()

	_, err := arena.Pass(nil)
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)

	_, err = arena.Pass(sliceObject{1})
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
}

func TestNarrowSharesCount(t *testing.T) {
	arena := NewArena()
	obj := &fakeObject{}
	h, err := arena.Pass(obj)
	require.NoError(t, err)

	calc, err := h.QueryInterface(iidCalc)
	require.NoError(t, err)
	assert.True(t, calc.Same(h))
	assert.Equal(t, iidCalc, calc.IID())

	n, err := h.RefCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)

	n, err = calc.Release()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n)

	n, err = h.Release()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n)
	assert.Equal(t, int32(1), obj.destroyed.Load())
	assert.Equal(t, 0, arena.Live())
}

func TestNarrowFailureLeavesCount(t *testing.T) {
	arena := NewArena()
	h, err := arena.Pass(&fakeObject{})
	require.NoError(t, err)

	_, err = h.QueryInterface(iidOther)
	require.Error(t, err)
	assert.ErrorIs(t, err, hresult.ErrNoSuchCapability)

	n, err := h.RefCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n)
	assert.False(t, h.Supports(iidOther))
	assert.True(t, h.Supports(IIDUnknown))
}

func TestReleasedHandleIsInvalid(t *testing.T) {
	arena := NewArena()
	obj := &fakeObject{}
	h, err := arena.Pass(obj)
	require.NoError(t, err)
	_, err = h.Release()
	require.NoError(t, err)

	_, err = h.Release()
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
	assert.ErrorIs(t, h.AddRef(), hresult.ErrInvalidReference)
	_, err = h.Object()
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
	_, err = h.QueryInterface(iidCalc)
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
	assert.Equal(t, int32(1), obj.destroyed.Load())

	// A destroyed object that comes back gets a new identity.
	again, err := arena.Pass(obj)
	require.NoError(t, err)
	assert.NotEqual(t, h.Identity(), again.Identity())
}

func TestNilHandle(t *testing.T) {
	var h Handle
	assert.True(t, h.IsNil())
	assert.Equal(t, "object(nil)", h.String())
	assert.ErrorIs(t, h.AddRef(), hresult.ErrInvalidReference)
	_, err := h.Release()
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
	_, err = h.QueryInterface(iidCalc)
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
	assert.False(t, h.Supports(IIDUnknown))
}

func TestForeignArena(t *testing.T) {
	a, b := NewArena(), NewArena()
	h, err := a.Pass(&fakeObject{})
	require.NoError(t, err)

	err = b.Retain(h)
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
}

func TestCapabilities(t *testing.T) {
	arena := NewArena()
	h, err := arena.Pass(&fakeObject{})
	require.NoError(t, err)

	caps, err := arena.Capabilities(h)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Capability{Unknown, {IID: iidCalc, Name: "ICalc"}}, caps)
}

func TestConcurrentRetainRelease(t *testing.T) {
	const workers = 64
	const rounds = 200

	arena := NewArena()
	obj := &fakeObject{}
	h, err := arena.Pass(obj)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				if err := h.AddRef(); err != nil {
					t.Error(err)
					return
				}
				if _, err := h.Release(); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	n, err := h.RefCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n)
	assert.Zero(t, obj.destroyed.Load())

	_, err = h.Release()
	require.NoError(t, err)
	assert.Equal(t, int32(1), obj.destroyed.Load())
}

func TestConcurrentFinalRelease(t *testing.T) {
	const workers = 32

	arena := NewArena()
	obj := &fakeObject{}
	h, err := arena.Pass(obj)
	require.NoError(t, err)
	for i := 1; i < workers; i++ {
		require.NoError(t, h.AddRef())
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _ = h.Release()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), obj.destroyed.Load())
	assert.Equal(t, 0, arena.Live())
}

type sitedObject struct {
	self Handle
	sets int
}

func (*sitedObject) Capabilities() []Capability { return nil }

func (o *sitedObject) SetSite(self Handle) {
	o.self = self
	o.sets++
}

func TestSetSite(t *testing.T) {
	arena := NewArena()
	obj := &sitedObject{}
	h, err := arena.Pass(obj)
	require.NoError(t, err)
	assert.True(t, obj.self.Same(h))
	assert.Equal(t, arena, obj.self.Arena())

	_, err = arena.Pass(obj)
	require.NoError(t, err)
	assert.Equal(t, 1, obj.sets)

	n, err := obj.self.RefCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)
}
