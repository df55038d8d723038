package deltadiff

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/change"
	"github.com/codalotl/richsync/internal/delta"
	"github.com/codalotl/richsync/internal/linediff"
	"github.com/codalotl/richsync/internal/selection"
	"github.com/codalotl/richsync/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	none   = attributes.Map{}
	bold   = attributes.New(attributes.Pair{Key: "bold", Value: true})
	italic = attributes.New(attributes.Pair{Key: "italic", Value: true})
)

// fakeSource reports the same attributes and line type for every selection.
type fakeSource struct {
	attrs    attributes.Map
	lineType attributes.LineType
	queried  []selection.Selection
}

func (f *fakeSource) SelectedTextAttributes(sel selection.Selection) attributes.Map {
	f.queried = append(f.queried, sel)
	return f.attrs
}

func (f *fakeSource) LineTypeInSelection(selection.Selection) attributes.LineType {
	if f.lineType == "" {
		return attributes.LineTypeNormal
	}
	return f.lineType
}

func ctx(bs, be, as, ae int) change.Context {
	return change.NewContext(selection.MustFromBounds(bs, be), selection.MustFromBounds(as, ae))
}

func requireDelta(t *testing.T, want delta.Delta, got delta.Delta) {
	t.Helper()
	require.True(t, want.Equal(got), "want %v\ngot  %v", want, got)
}

func TestCompute_AppendToLine(t *testing.T) {
	r, err := Compute(Model{
		OldText: "Hello\n",
		NewText: "Hello World\n",
		Context: ctx(5, 5, 11, 11),
	}, nil)
	require.NoError(t, err)
	requireDelta(t, delta.Delta{
		delta.Retain(5, none),
		delta.Insert(" World", none),
		delta.Retain(1, none),
	}, r.Delta)
	assert.False(t, r.Widened)
	assert.False(t, r.Deletion)
	assert.Equal(t, selection.MustFromBounds(0, 5), r.Traversal)
}

func TestCompute_DeleteLine(t *testing.T) {
	want := delta.Delta{delta.Retain(2, none), delta.Delete(2)}

	// Selection runs through the end of the text.
	r, err := Compute(Model{OldText: "A\nB\n", NewText: "A\n", Context: ctx(2, 4, 2, 2)}, nil)
	require.NoError(t, err)
	requireDelta(t, want, r.Delta)
	assert.False(t, r.Widened)
	assert.True(t, r.Deletion)

	// Selection covers only "B": the line-snapped traversal stops before the final terminator, so it is extended by one line.
	r, err = Compute(Model{OldText: "A\nB\n", NewText: "A\n", Context: ctx(2, 3, 2, 2)}, nil)
	require.NoError(t, err)
	requireDelta(t, want, r.Delta)
	assert.True(t, r.Widened)
	assert.Equal(t, selection.MustFromBounds(2, 4), r.Traversal)
}

func TestCompute_InsertIntoEmpty(t *testing.T) {
	src := &fakeSource{attrs: none}
	r, err := Compute(Model{
		OldText:              "",
		NewText:              "Hi\n",
		Context:              ctx(0, 0, 3, 3),
		CursorTextAttributes: bold,
	}, src)
	require.NoError(t, err)
	requireDelta(t, delta.Delta{
		delta.Insert("Hi", bold),
		delta.Insert("\n", none),
	}, r.Delta)
	assert.True(t, r.TextAttributes.Equal(bold))
	assert.True(t, r.LineAttributes.IsEmpty())
}

func TestCompute_NoOp(t *testing.T) {
	tests := []struct {
		text string
		c    change.Context
	}{
		{text: "", c: ctx(0, 0, 0, 0)},
		{text: "a", c: ctx(1, 1, 1, 1)},
		{text: "one\ntwo\nthree", c: ctx(5, 5, 5, 5)},
		{text: "one\ntwo\nthree", c: ctx(2, 9, 2, 9)},
		{text: "one\ntwo\n", c: ctx(1, 1, 6, 6)}, // caret moved without an edit
	}
	for _, tt := range tests {
		r, err := Compute(Model{OldText: tt.text, NewText: tt.text, Context: tt.c}, &fakeSource{attrs: bold})
		require.NoError(t, err)
		assert.True(t, r.Delta.IsIdentity(), "text=%q ctx=%v delta=%v", tt.text, tt.c, r.Delta)
	}
}

func TestCompute_SingleLineEditIsOneBatch(t *testing.T) {
	var calls []string
	differ := linediff.Func(func(before, after string, attrs attributes.Map) delta.Delta {
		calls = append(calls, before+"|"+after)
		return linediff.Default.LineDiff(before, after, attrs)
	})
	r, err := New(differ).Compute(Model{
		OldText: "first\nsecond\nthird\n",
		NewText: "first\nsec0nd\nthird\n",
		Context: ctx(10, 10, 10, 10),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"second|sec0nd"}, calls)
	requireDelta(t, delta.Delta{
		delta.Retain(9, none),
		delta.Insert("0", none),
		delta.Delete(1),
		delta.Retain(3, none),
	}, r.Delta)
}

func TestCompute_InsertedLinesCarryLineType(t *testing.T) {
	src := &fakeSource{attrs: italic, lineType: "heading-2"}
	heading := attributes.ForLineType("heading-2")

	r, err := Compute(Model{
		OldText: "a\nz\n",
		NewText: "a\nb\nc\nz\n",
		Context: ctx(1, 1, 5, 5),
	}, src)
	require.NoError(t, err)

	got, err := r.Delta.Apply("a\nz\n")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nz\n", got)

	var sawTerminator bool
	for _, op := range r.Delta {
		if op.Kind != delta.KindInsert {
			continue
		}
		if op.Text == "\n" {
			sawTerminator = true
			assert.True(t, op.Attributes.Equal(heading), "terminator attrs: %v", op.Attributes)
		} else {
			assert.NotContains(t, op.Text, "\n")
			assert.False(t, op.Attributes.Has(attributes.LineTypeKey))
			assert.True(t, op.Attributes.Equal(italic), "text attrs: %v", op.Attributes)
		}
	}
	assert.True(t, sawTerminator)
}

func TestCompute_RangeSelectionIgnoresCursorAttributes(t *testing.T) {
	src := &fakeSource{attrs: italic}
	r, err := Compute(Model{
		OldText:              "abc",
		NewText:              "aXc",
		Context:              ctx(1, 2, 2, 2),
		CursorTextAttributes: bold,
	}, src)
	require.NoError(t, err)
	assert.True(t, r.TextAttributes.Equal(italic))
	assert.Equal(t, []selection.Selection{selection.MustFromBounds(1, 2)}, src.queried)

	r, err = Compute(Model{
		OldText:              "abc",
		NewText:              "abXc",
		Context:              ctx(2, 2, 3, 3),
		CursorTextAttributes: bold,
	}, src)
	require.NoError(t, err)
	assert.True(t, r.TextAttributes.Equal(attributes.MergeRight(italic, bold)))
}

func TestCompute_StripsLineTypeFromTextAttributes(t *testing.T) {
	src := &fakeSource{attrs: attributes.MergeRight(bold, attributes.ForLineType("quote"))}
	r, err := Compute(Model{OldText: "", NewText: "x", Context: ctx(0, 0, 1, 1)}, src)
	require.NoError(t, err)
	requireDelta(t, delta.Delta{delta.Insert("x", bold)}, r.Delta)
}

func TestCompute_InvalidInput(t *testing.T) {
	_, err := Compute(Model{OldText: "abc", NewText: "abc", Context: ctx(2, 4, 2, 2)}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Compute(Model{OldText: "abc", NewText: "ab", Context: ctx(2, 3, 3, 3)}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompute_Unicode(t *testing.T) {
	r, err := Compute(Model{
		OldText: "héllo\nwörld\n",
		NewText: "héllo\nwörld!\n",
		Context: ctx(11, 11, 12, 12),
	}, nil)
	require.NoError(t, err)
	requireDelta(t, delta.Delta{
		delta.Retain(11, none),
		delta.Insert("!", none),
		delta.Retain(1, none),
	}, r.Delta)
}

func TestCompute_JoinLinesWithBackspace(t *testing.T) {
	r, err := Compute(Model{OldText: "A\nB", NewText: "AB", Context: ctx(2, 2, 1, 1)}, nil)
	require.NoError(t, err)
	got, err := r.Delta.Apply("A\nB")
	require.NoError(t, err)
	assert.Equal(t, "AB", got)
	assert.True(t, r.Deletion)
	assert.False(t, r.Widened)
}

func TestCompute_JoinKeepsLowerTerminator(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     delta.Delta
	}{
		{
			name: "last line",
			old:  "A\nB",
			new:  "AB",
			want: delta.Delta{delta.Retain(1, none), delta.Insert("B", none), delta.Delete(2)},
		},
		{
			name: "lines follow",
			old:  "A\nB\nC",
			new:  "AB\nC",
			want: delta.Delta{delta.Retain(1, none), delta.Insert("B", none), delta.Delete(2), delta.Retain(1, none)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Compute(Model{OldText: tt.old, NewText: tt.new, Context: ctx(2, 2, 1, 1)}, nil)
			require.NoError(t, err)
			requireDelta(t, tt.want, r.Delta)
			assert.False(t, r.Widened)
		})
	}
}

// A forward delete reports the same caret before and after, so the traversal must grow to take in the next line.
func TestCompute_ForwardDeleteJoinsLines(t *testing.T) {
	old := "one\ntwo\nbold line\nitalic line"
	r, err := Compute(Model{OldText: old, NewText: "onetwo\nbold line\nitalic line", Context: ctx(3, 3, 3, 3)}, nil)
	require.NoError(t, err)
	requireDelta(t, delta.Delta{
		delta.Retain(3, none),
		delta.Insert("two", none),
		delta.Delete(4),
		delta.Retain(1, none),
	}, r.Delta)
	assert.True(t, r.Widened)
	assert.Equal(t, selection.MustFromBounds(0, 7), r.Traversal)
}

func TestCompute_WidenedIsLogged(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "richsync.log")
	t.Setenv("RICHSYNC_LOG_FILE", logFile)

	r, err := Compute(Model{OldText: "one\ntwo\n", NewText: "one\nTWO\n", Context: ctx(0, 0, 0, 0)}, nil)
	require.NoError(t, err)
	assert.True(t, r.Widened)

	got, err := r.Delta.Apply("one\ntwo\n")
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\n", got)

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "do not bracket the edit")
}

// randomEdit replaces a random range of old with random text and reports the selections a surface would, along with the replaced range. Before the change the
// surface reports the replaced range, a caret at its end (backspace), or a caret at its start with nothing inserted (forward delete). After it, a caret follows
// the inserted text.
func randomEdit(rng *rand.Rand, old string) (string, change.Context, selection.Selection) {
	runes := []rune(old)
	s := rng.Intn(len(runes) + 1)
	e := s + rng.Intn(len(runes)-s+1)
	edit := selection.MustFromBounds(s, e)

	var before selection.Selection
	var ins string
	switch rng.Intn(3) {
	case 0:
		before, ins = edit, randomText(rng, 4)
	case 1:
		before, ins = selection.MustFromBounds(e, e), randomText(rng, 4)
	default:
		before = selection.MustFromBounds(s, s)
	}

	newText := string(runes[:s]) + ins + string(runes[e:])
	caret := s + len([]rune(ins))
	return newText, change.NewContext(before, selection.MustFromBounds(caret, caret)), edit
}

func randomText(rng *rand.Rand, max int) string {
	alphabet := []rune("ab\né")
	var b strings.Builder
	for n := rng.Intn(max + 1); n > 0; n-- {
		b.WriteRune(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

func TestCompute_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		old := randomText(rng, 10)
		newText, c, edit := randomEdit(rng, old)

		r, err := Compute(Model{OldText: old, NewText: newText, Context: c, CursorTextAttributes: bold}, nil)
		require.NoError(t, err)

		// The diffed range never reaches past the lines the edit touched.
		lines := text.New(old).SelectionEncompassingLines(edit)
		require.GreaterOrEqual(t, r.Traversal.Start(), lines.Start(), "old=%q new=%q ctx=%v", old, newText, c)
		require.LessOrEqual(t, r.Traversal.End(), lines.End(), "old=%q new=%q ctx=%v", old, newText, c)

		got, err := r.Delta.Apply(old)
		require.NoError(t, err)
		require.Equal(t, newText, got, "old=%q new=%q ctx=%v delta=%v", old, newText, c, r.Delta)
	}
}

func TestCompute_RoundTripArbitrarySelections(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	randomSel := func(n int) selection.Selection {
		return selection.MustBetween(rng.Intn(n+1), rng.Intn(n+1))
	}
	for i := 0; i < 2000; i++ {
		old := randomText(rng, 8)
		newText := randomText(rng, 8)
		c := change.NewContext(randomSel(len([]rune(old))), randomSel(len([]rune(newText))))

		r, err := Compute(Model{OldText: old, NewText: newText, Context: c}, nil)
		require.NoError(t, err)

		got, err := r.Delta.Apply(old)
		require.NoError(t, err)
		require.Equal(t, newText, got, "old=%q new=%q ctx=%v delta=%v", old, newText, c, r.Delta)
	}
}

func TestCompute_RetainedTextKeepsAttributes(t *testing.T) {
	doc := delta.Delta{delta.Insert("Hello", italic), delta.Insert("\n", none)}
	r, err := Compute(Model{OldText: "Hello\n", NewText: "Hello World\n", Context: ctx(5, 5, 11, 11)}, &fakeSource{attrs: italic})
	require.NoError(t, err)

	composed := delta.Compose(doc, r.Delta)
	requireDelta(t, delta.Delta{delta.Insert("Hello World", italic), delta.Insert("\n", none)}, composed)
}
