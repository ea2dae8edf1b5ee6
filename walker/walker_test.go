package walker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gramwalk/walker"
)

// texts flattens a result into its arc texts for compact assertions.
func texts(res walker.Result) []string {
	out := make([]string, len(res.Arcs))
	for i, a := range res.Arcs {
		out[i] = a.Text
	}

	return out
}

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestWalk_NegativeSize(t *testing.T) {
	_, err := walker.Walk(-1, nil)
	assert.ErrorIs(t, err, walker.ErrNegativeSize)
}

func TestWalk_EmptyLattice(t *testing.T) {
	res, err := walker.Walk(0, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Arcs)
	assert.Zero(t, res.Score)
}

func TestWalk_BadArc(t *testing.T) {
	cases := []walker.Arc{
		{From: -1, Len: 1},
		{From: 0, Len: 0},
		{From: 1, Len: 2},
	}
	for _, a := range cases {
		_, err := walker.Walk(2, []walker.Arc{a})
		assert.ErrorIs(t, err, walker.ErrBadArc, "arc %+v", a)
	}
}

func TestWalk_PinConflict(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 2, Pinned: true},
		{From: 1, Len: 1, Pinned: true},
	}
	_, err := walker.Walk(2, arcs)
	assert.ErrorIs(t, err, walker.ErrPinConflict)
}

func TestWalk_Unreachable(t *testing.T) {
	// Vertex 2 has no incoming arc, so the sink 3 is cut off.
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "a", Score: -1},
		{From: 2, Len: 1, Text: "c", Score: -1},
	}
	_, err := walker.Walk(3, arcs)
	require.ErrorIs(t, err, walker.ErrUnreachable)
	assert.Contains(t, err.Error(), "vertex 2")
}

// ------------------------------------------------------------------------
// 2. Maximum score
// ------------------------------------------------------------------------

func TestWalk_PhraseBeatsSingles(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "何", Score: -3.0},
		{From: 1, Len: 1, Text: "是", Score: -2.5},
		{From: 0, Len: 2, Text: "何時", Score: -1.0},
	}
	res, err := walker.Walk(2, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"何時"}, texts(res))
	assert.InDelta(t, -1.0, res.Score, 1e-12)
}

func TestWalk_SinglesBeatPhrase(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "a", Score: -1},
		{From: 1, Len: 1, Text: "b", Score: -1},
		{From: 0, Len: 2, Text: "XY", Score: -5},
	}
	res, err := walker.Walk(2, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, texts(res))
	assert.InDelta(t, -2.0, res.Score, 1e-12)
}

func TestWalk_ContiguousCoverage(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "a", Score: -2},
		{From: 1, Len: 1, Text: "b", Score: -2},
		{From: 2, Len: 1, Text: "c", Score: -2},
		{From: 3, Len: 1, Text: "d", Score: -2},
		{From: 1, Len: 2, Text: "BC", Score: -1},
		{From: 2, Len: 2, Text: "CD", Score: -1.5},
	}
	res, err := walker.Walk(4, arcs)
	require.NoError(t, err)

	sum := 0
	for i, a := range res.Arcs {
		sum += a.Len
		if i > 0 {
			assert.Equal(t, res.Arcs[i-1].To(), a.From, "arcs must be contiguous")
		}
	}
	assert.Equal(t, 4, sum)
	assert.Equal(t, []string{"a", "BC", "d"}, texts(res))
}

// ------------------------------------------------------------------------
// 3. Rule 1: pinned arcs
// ------------------------------------------------------------------------

func TestWalk_PinnedForcesPath(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "何", Score: -3.0, Pinned: true},
		{From: 1, Len: 1, Text: "是", Score: -2.5},
		{From: 0, Len: 2, Text: "何時", Score: -1.0},
	}
	res, err := walker.Walk(2, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"何", "是"}, texts(res))
}

func TestWalk_PinnedBeatsLongChainOfBetterPhrases(t *testing.T) {
	// Without pin filtering a small pin bonus could lose to many good phrases.
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "a", Score: -50},
		{From: 1, Len: 1, Text: "b", Score: -50, Pinned: true},
		{From: 2, Len: 1, Text: "c", Score: -50},
		{From: 0, Len: 3, Text: "ABC", Score: -0.1},
	}
	res, err := walker.Walk(3, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, texts(res))
}

// ------------------------------------------------------------------------
// 4. Rule 2: longest equivalent phrase
// ------------------------------------------------------------------------

func TestWalk_EquivalentPhraseWinsOverHigherScoringDecomposition(t *testing.T) {
	// Singles spell the same text as the phrase and score higher in sum.
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "高", Score: -1},
		{From: 1, Len: 1, Text: "科", Score: -1},
		{From: 2, Len: 1, Text: "技", Score: -1},
		{From: 0, Len: 3, Text: "高科技", Score: -4},
	}
	res, err := walker.Walk(3, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"高科技"}, texts(res))
}

func TestWalk_EquivalentPhraseIndependentOfArcOrder(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 2, Text: "何時", Score: -2},
		{From: 0, Len: 1, Text: "何", Score: -0.5},
		{From: 1, Len: 1, Text: "時", Score: -0.5},
	}
	res, err := walker.Walk(2, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"何時"}, texts(res))

	// Reverse input order: the result must not change.
	rev := []walker.Arc{arcs[2], arcs[1], arcs[0]}
	res, err = walker.Walk(2, rev)
	require.NoError(t, err)
	assert.Equal(t, []string{"何時"}, texts(res))
}

func TestWalk_LongerPhraseWinsOverShorterEquivalentPhrases(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 2, Text: "ab", Score: -1},
		{From: 2, Len: 2, Text: "cd", Score: -1},
		{From: 0, Len: 4, Text: "abcd", Score: -9},
	}
	res, err := walker.Walk(4, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd"}, texts(res))
}

func TestWalk_DisqualifiedDecompositionLeavesDifferentTextInPlay(t *testing.T) {
	// X+Y is the best path but spells the phrase XY, so it is out. XY and Z
	// then compete on score and Z wins.
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "X", Score: -1},
		{From: 1, Len: 1, Text: "Y", Score: -1},
		{From: 0, Len: 2, Text: "XY", Score: -10},
		{From: 0, Len: 2, Text: "Z", Score: -5},
	}
	for _, order := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}} {
		in := make([]walker.Arc, len(order))
		for i, k := range order {
			in[i] = arcs[k]
		}
		res, err := walker.Walk(2, in)
		require.NoError(t, err)
		assert.Equal(t, []string{"Z"}, texts(res), "order %v", order)
		assert.InDelta(t, -5.0, res.Score, 1e-12)
	}
}

func TestWalk_PhraseStillWinsWhenThirdTextScoresWorse(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "X", Score: -1},
		{From: 1, Len: 1, Text: "Y", Score: -1},
		{From: 0, Len: 2, Text: "XY", Score: -4},
		{From: 0, Len: 2, Text: "Z", Score: -9},
	}
	res, err := walker.Walk(2, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"XY"}, texts(res))
}

func TestWalk_DisqualifiedSuffixDecomposition(t *testing.T) {
	// At vertex 3, X+Y+W spells the same suffix as X+YW and is out; the
	// whole-range Q then beats X+YW on score.
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "X", Score: -1},
		{From: 1, Len: 1, Text: "Y", Score: -1},
		{From: 2, Len: 1, Text: "W", Score: -1},
		{From: 1, Len: 2, Text: "YW", Score: -10},
		{From: 0, Len: 3, Text: "Q", Score: -5},
	}
	res, err := walker.Walk(3, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q"}, texts(res))
}

// ------------------------------------------------------------------------
// 5. Rule 3: deterministic ties
// ------------------------------------------------------------------------

func TestWalk_StableTieBreak(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "x", Score: -1, Ref: 1},
		{From: 0, Len: 1, Text: "y", Score: -1, Ref: 2},
	}
	for i := 0; i < 10; i++ {
		res, err := walker.Walk(1, arcs)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Arcs[0].Ref, "first inserted arc wins an exact tie")
	}
}

func TestWalk_EpsilonTie(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "x", Score: -1},
		{From: 0, Len: 1, Text: "y", Score: -1 + 1e-12},
	}
	// With default epsilon the two scores tie, but sorting already puts y first.
	res, err := walker.Walk(1, arcs)
	require.NoError(t, err)
	assert.Equal(t, "y", res.Arcs[0].Text)

	assert.Panics(t, func() { walker.WithEpsilon(-1)(&walker.Options{}) })
}

func TestWalk_WithEpsilonWidensTies(t *testing.T) {
	arcs := []walker.Arc{
		{From: 0, Len: 1, Text: "a", Score: -1},
		{From: 1, Len: 1, Text: "b", Score: -1},
		{From: 0, Len: 2, Text: "AB", Score: -1.5},
	}
	res, err := walker.Walk(2, arcs)
	require.NoError(t, err)
	assert.Equal(t, []string{"AB"}, texts(res))

	// b is settled first at vertex 2; AB is only 0.5 better and loses the tie.
	res, err = walker.Walk(2, arcs, walker.WithEpsilon(0.6))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, texts(res))
	assert.Equal(t, 3, res.Vertices)
}
