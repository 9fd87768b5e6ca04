package tagcolor

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bgp = Palette{"blue", "green", "purple"}

func TestHash(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"alpha", 92909918},
		{"beta", 3020272},
		{"gamma", 98120615},
		{"delta", 95468472},
		{"hello world", 1794106052},
		{"日本語", 25921943},
		{"😀", 1772899}, // surrogate pair hashes as two code units
		{"polygenelubricants", -2147483648},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Hash(tt.in))
		})
	}
}

func TestResolve_FourTagsOverThreeColors(t *testing.T) {
	a := New(bgp)

	assert.Equal(t, ColorID("purple"), a.Resolve("alpha"))
	assert.Equal(t, ColorID("blue"), a.Resolve("beta"))
	assert.Equal(t, ColorID("green"), a.Resolve("gamma"))
	assert.Equal(t, ColorID("blue"), a.Resolve("delta"))

	counts := make([]int, 0, 3)
	for _, n := range a.Histogram() {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	assert.Equal(t, []int{1, 1, 2}, counts)
}

func TestResolve_MinInt32Hash(t *testing.T) {
	a := New(bgp)
	// |MinInt32| = 2147483648, 2147483648 % 3 == 2
	assert.Equal(t, ColorID("purple"), a.Resolve("polygenelubricants"))
}

func TestResolve_Idempotent(t *testing.T) {
	a := New(DefaultPalette())

	first := a.Resolve("go")
	for i := range 50 {
		a.Resolve(fmt.Sprintf("tag-%d", i))
		assert.Equal(t, first, a.Resolve("go"))
	}
}

func TestResolve_BalanceBound(t *testing.T) {
	for _, n := range []int{1, 2, 7, 8, 9, 25, 100, 257} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			p := DefaultPalette()
			a := New(p)
			for i := range n {
				a.Resolve(fmt.Sprintf("tag/%d", i))
			}

			lo, hi := n/len(p), (n+len(p)-1)/len(p)
			hist := a.Histogram()
			require.Len(t, hist, len(p))
			for c, count := range hist {
				assert.GreaterOrEqual(t, count, lo, "color %s", c)
				assert.LessOrEqual(t, count, hi, "color %s", c)
			}
		})
	}
}

func TestResolve_ColorsBelongToPalette(t *testing.T) {
	a := New(bgp)
	for i := range 30 {
		c := a.Resolve(fmt.Sprintf("t%d", i))
		assert.True(t, bgp.Contains(c), "unexpected color %q", c)
	}
}

func TestResolve_Fallback(t *testing.T) {
	a := New(bgp)

	var nilStr *string
	empty := ""

	assert.Equal(t, ColorID("blue"), a.Resolve(""))
	assert.Equal(t, ColorID("blue"), a.ResolveValue(nil))
	assert.Equal(t, ColorID("blue"), a.ResolveValue(nilStr))
	assert.Equal(t, ColorID("blue"), a.ResolveValue(&empty))
	assert.Equal(t, ColorID("blue"), a.ResolveValue(42))
	assert.Equal(t, ColorID("blue"), a.ResolveValue([]string{"x"}))

	assert.Empty(t, a.Snapshot())
	assert.Equal(t, 0, a.Len())
}

type label struct{ name string }

func (l *label) String() string { return l.name }

func TestResolveValue_Stringer(t *testing.T) {
	a := New(bgp)
	b := New(bgp)

	assert.Equal(t, b.Resolve("alpha"), a.ResolveValue(&label{name: "alpha"}))

	var nilLabel *label
	assert.Equal(t, ColorID("blue"), a.ResolveValue(nilLabel))
	assert.Equal(t, 1, a.Len())
}

func TestResolve_DeterministicGivenOrder(t *testing.T) {
	tags := []string{"go", "rust", "sql", "work", "personal", "draft", "ideas", "writing", "code", "review"}

	a := New(DefaultPalette())
	b := New(DefaultPalette())
	a.Preload(tags)
	for _, tag := range tags {
		b.Resolve(tag)
	}

	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestResolve_OrderDependent(t *testing.T) {
	// Same set, different order: only the balance guarantee holds.
	a := New(bgp)
	b := New(bgp)
	a.Preload([]string{"alpha", "beta", "gamma", "delta"})
	b.Preload([]string{"delta", "gamma", "beta", "alpha"})

	assert.Equal(t, ColorID("green"), a.Snapshot()["gamma"])
	assert.Equal(t, ColorID("purple"), b.Snapshot()["gamma"])
	assert.Equal(t, a.Len(), b.Len())
}

func TestSnapshot_IsIndependent(t *testing.T) {
	a := New(bgp)
	a.Resolve("alpha")

	snap := a.Snapshot()
	a.Resolve("beta")
	snap["gamma"] = "green"

	assert.Len(t, snap, 2)
	assert.NotContains(t, snap, "beta")
	assert.NotContains(t, a.Snapshot(), "gamma")
}

func TestReset(t *testing.T) {
	a := New(bgp)
	a.Preload([]string{"alpha", "beta", "gamma"})
	require.Equal(t, ColorID("blue"), a.Resolve("beta"))

	a.Reset()
	assert.Empty(t, a.Snapshot())
	for _, n := range a.Histogram() {
		assert.Zero(t, n)
	}

	// With an empty histogram beta's hash picks index 3020272 % 3 == 1.
	assert.Equal(t, ColorID("green"), a.Resolve("beta"))
}

func TestPreload_MatchesIndividualResolves(t *testing.T) {
	tags := []string{"x", "", "y", "x", "z"}

	a := New(bgp)
	a.Preload(tags)

	b := New(bgp)
	for _, tag := range tags {
		b.Resolve(tag)
	}

	assert.Equal(t, b.Snapshot(), a.Snapshot())
	assert.Equal(t, 3, a.Len())
}

func TestNew_CopiesPalette(t *testing.T) {
	p := Palette{"blue", "green"}
	a := New(p)
	p[0] = "red"

	assert.Equal(t, ColorID("blue"), a.Fallback())

	got := a.Palette()
	got[1] = "red"
	assert.Equal(t, Palette{"blue", "green"}, a.Palette())
}

func TestNew_EmptyPaletteUsesDefault(t *testing.T) {
	a := New(nil)
	assert.Equal(t, DefaultPalette(), a.Palette())
}

func TestResolve_Concurrent(t *testing.T) {
	p := DefaultPalette()
	a := New(p)

	const workers, perWorker = 8, 40
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				a.Resolve(fmt.Sprintf("w%d-%d", w, i))
				a.Resolve("shared")
			}
		}()
	}
	wg.Wait()

	n := workers*perWorker + 1
	require.Equal(t, n, a.Len())

	lo, hi := n/len(p), (n+len(p)-1)/len(p)
	for _, count := range a.Histogram() {
		assert.GreaterOrEqual(t, count, lo)
		assert.LessOrEqual(t, count, hi)
	}
}
