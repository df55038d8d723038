package delta

import (
	"encoding/json"
	"testing"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	none = attributes.Map{}
	bold = attributes.New(attributes.Pair{Key: "bold", Value: true})
)

func TestPush_Merges(t *testing.T) {
	var d Delta
	d.Retain(2, none).Retain(3, none).Insert("ab", bold).Insert("c", bold).Insert("d", none).Delete(1).Delete(2)
	require.Equal(t, Delta{
		Retain(5, none),
		Insert("abc", bold),
		Insert("d", none),
		Delete(3),
	}, d)
}

func TestPush_DropsEmpty(t *testing.T) {
	var d Delta
	d.Retain(0, none).Insert("", bold).Delete(0)
	assert.Empty(t, d)
}

func TestPush_InsertBeforeDelete(t *testing.T) {
	var d Delta
	d.Insert("a", none).Delete(2).Insert("b", none)
	require.True(t, d.Equal(Delta{Insert("ab", none), Delete(2)}), "got %v", d)

	var e Delta
	e.Retain(1, none).Delete(1).Insert("x", bold)
	require.True(t, e.Equal(Delta{Retain(1, none), Insert("x", bold), Delete(1)}), "got %v", e)
}

func TestNormalize(t *testing.T) {
	d := Delta{Retain(1, none), Retain(0, none), Retain(2, none), Insert("a", none), Insert("b", none)}
	assert.Equal(t, Delta{Retain(3, none), Insert("ab", none)}, d.Normalize())
	// d itself is untouched:
	assert.Len(t, d, 5)
}

func TestLengths(t *testing.T) {
	d := Delta{Retain(3, none), Insert("héllo", none), Delete(2)}
	assert.Equal(t, 5, d.BaseLength())
	assert.Equal(t, 8, d.TargetLength())
	assert.Equal(t, 5, d[1].Len())
}

func TestPredicates(t *testing.T) {
	assert.True(t, Delta{}.IsIdentity())
	assert.True(t, Delta{Retain(4, none)}.IsIdentity())
	assert.False(t, Delta{Retain(4, bold)}.IsIdentity())
	assert.False(t, Delta{Insert("a", none)}.IsIdentity())

	assert.True(t, Delta{Insert("a", none), Insert("\n", bold)}.IsDocument())
	assert.False(t, Delta{Insert("a", none), Retain(1, none)}.IsDocument())

	assert.Equal(t, "a\n", Delta{Insert("a", none), Retain(3, none), Insert("\n", bold)}.PlainText())
}

func TestChop(t *testing.T) {
	assert.Equal(t, Delta{Insert("a", none)}, Delta{Insert("a", none), Retain(2, none)}.Chop())
	assert.Equal(t, Delta{Retain(2, bold)}, Delta{Retain(2, bold)}.Chop())
	assert.Empty(t, Delta{}.Chop())
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		d    Delta
		want string
	}{
		{name: "insert", in: "Hello\n", d: Delta{Retain(5, none), Insert(" World", bold)}, want: "Hello World\n"},
		{name: "delete", in: "A\nB\n", d: Delta{Retain(2, none), Delete(2)}, want: "A\n"},
		{name: "replace runes", in: "héllo", d: Delta{Retain(1, none), Delete(1), Insert("e", none)}, want: "hello"},
		{name: "empty delta", in: "abc", d: nil, want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.Apply(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Delta{Retain(5, none)}.Apply("abc")
	require.ErrorIs(t, err, ErrLengthMismatch)
	_, err = Delta{Delete(5)}.Apply("abc")
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestIterator(t *testing.T) {
	it := NewIterator(Delta{Insert("héllo", bold), Retain(3, none), Delete(2)})
	require.True(t, it.HasNext())
	assert.Equal(t, KindInsert, it.PeekKind())
	assert.Equal(t, 5, it.PeekLength())

	assert.Equal(t, Insert("hé", bold), it.Next(2))
	assert.Equal(t, 3, it.PeekLength())
	assert.Equal(t, Insert("llo", bold), it.Next(10))
	assert.Equal(t, Retain(1, none), it.Next(1))

	rest := it.Rest()
	assert.Equal(t, Delta{Retain(2, none), Delete(2)}, rest)
	assert.False(t, it.HasNext())
	assert.Equal(t, KindRetain, it.PeekKind())
	assert.Equal(t, Retain(4, none), it.Next(4))
}

func TestCompose(t *testing.T) {
	italic := attributes.New(attributes.Pair{Key: "italic", Value: true})
	boldItalic := attributes.MergeRight(bold, italic)

	tests := []struct {
		name string
		a, b Delta
		want Delta
	}{
		{
			name: "insert into document",
			a:    Delta{Insert("Hello\n", none)},
			b:    Delta{Retain(5, none), Insert(" World", bold)},
			want: Delta{Insert("Hello", none), Insert(" World", bold), Insert("\n", none)},
		},
		{
			name: "delete from document",
			a:    Delta{Insert("A\nB\n", none)},
			b:    Delta{Retain(2, none), Delete(2)},
			want: Delta{Insert("A\n", none)},
		},
		{
			name: "format overlay",
			a:    Delta{Insert("abc", italic)},
			b:    Delta{Retain(1, none), Retain(1, bold)},
			want: Delta{Insert("a", italic), Insert("b", boldItalic), Insert("c", italic)},
		},
		{
			name: "remove attribute with nil",
			a:    Delta{Insert("ab", boldItalic)},
			b:    Delta{Retain(2, attributes.New(attributes.Pair{Key: "bold", Value: nil}))},
			want: Delta{Insert("ab", italic)},
		},
		{
			name: "retain over retain keeps nil",
			a:    Delta{Retain(2, bold)},
			b:    Delta{Retain(2, attributes.New(attributes.Pair{Key: "italic", Value: nil}))},
			want: Delta{Retain(2, attributes.MergeRight(bold, attributes.New(attributes.Pair{Key: "italic", Value: nil})))},
		},
		{
			name: "delete cancels insert",
			a:    Delta{Insert("abc", none)},
			b:    Delta{Retain(1, none), Delete(1)},
			want: Delta{Insert("ac", none)},
		},
		{
			name: "change then change",
			a:    Delta{Retain(3, none), Insert("x", none)},
			b:    Delta{Retain(5, none), Delete(1)},
			want: Delta{Retain(3, none), Insert("x", none), Retain(1, none), Delete(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.a, tt.b)
			require.True(t, tt.want.Equal(got), "want %v\ngot  %v", tt.want, got)
		})
	}
}

func TestCompose_MatchesSequentialApply(t *testing.T) {
	doc := "The quick brown fox\njumps\n"
	a := Delta{Retain(4, none), Delete(6), Insert("slow ", none)}
	b := Delta{Retain(9, none), Insert("red ", none), Retain(4, none), Delete(1)}

	step1, err := a.Apply(doc)
	require.NoError(t, err)
	step2, err := b.Apply(step1)
	require.NoError(t, err)

	composed, err := Compose(a, b).Apply(doc)
	require.NoError(t, err)
	assert.Equal(t, step2, composed)
}

func TestBuffer(t *testing.T) {
	var b Buffer
	b.Push(Delta{Retain(0, none)})
	b.Push(Delta{Retain(5, none), Insert(" World", bold)})
	b.Push(Delta{Retain(1, none)})
	b.Push(nil)
	got := b.Compose()
	require.Equal(t, Delta{Retain(5, none), Insert(" World", bold), Retain(1, none)}, got)

	var empty Buffer
	assert.Empty(t, empty.Compose())
}

func TestBuffer_CopiesBatches(t *testing.T) {
	batch := Delta{Insert("a", none)}
	var b Buffer
	b.Push(batch)
	batch[0] = Delete(1)
	assert.Equal(t, Delta{Insert("a", none)}, b.Compose())
}

func TestJSON(t *testing.T) {
	d := Delta{Retain(5, none), Insert(" World", bold), Delete(2), Insert("\n", attributes.ForLineType("heading-1"))}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ops":[{"retain":5},{"insert":" World","attributes":{"bold":true}},{"delete":2},{"insert":"\n","attributes":{"$type":"heading-1"}}]}`, string(b))

	var decoded Delta
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, d.Equal(decoded))

	empty, err := json.Marshal(Delta(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ops":[]}`, string(empty))
}

func TestJSON_Invalid(t *testing.T) {
	bad := []string{
		`{"ops":[{"retain":1,"delete":1}]}`,
		`{"ops":[{}]}`,
		`{"ops":[{"retain":0}]}`,
		`{"ops":[{"delete":-2}]}`,
		`{"ops":[{"delete":1,"attributes":{"bold":true}}]}`,
	}
	for _, in := range bad {
		var d Delta
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestString(t *testing.T) {
	d := Delta{Retain(2, none), Insert("x", bold), Delete(1)}
	assert.Equal(t, `[retain 2, insert "x" {bold: true}, delete 1]`, d.String())
}
