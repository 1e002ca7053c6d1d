package drafts_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/uvd/pkg/drafts"
)

func ids(list []drafts.Draft) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.ID())
	}

	return out
}

func withIDs(values ...any) []drafts.Draft {
	out := make([]drafts.Draft, 0, len(values))
	for _, v := range values {
		out = append(out, drafts.Draft{"id": v})
	}

	return out
}

func Test_NormalizeID_Stringifies_Values_When_Called(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "Nil", value: nil, want: ""},
		{name: "String", value: "d_1", want: "d_1"},
		{name: "EmptyString", value: "", want: ""},
		{name: "WholeFloat", value: float64(42), want: "42"},
		{name: "FractionalFloat", value: 1.5, want: "1.5"},
		{name: "Int", value: 7, want: "7"},
		{name: "Zero", value: 0, want: "0"},
		{name: "Bool", value: false, want: "false"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, drafts.NormalizeID(testCase.value))
		})
	}
}

func Test_MergeByID_Puts_Fetched_First_When_Refreshing_Cache(t *testing.T) {
	t.Parallel()

	cached := withIDs("a", "b")
	fetched := withIDs("c", "a")

	got := drafts.MergeByID(fetched, cached)

	diff := cmp.Diff([]string{"c", "a", "b"}, ids(got))
	assert.Empty(t, diff, "merged ids mismatch (-want +got)")
}

func Test_MergeByID_Keeps_First_Occurrence_When_IDs_Repeat(t *testing.T) {
	t.Parallel()

	primary := []drafts.Draft{{"id": "a", "v": 1}, {"id": "a", "v": 2}}
	secondary := []drafts.Draft{{"id": "a", "v": 3}, {"id": "b"}}

	got := drafts.MergeByID(primary, secondary)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0]["v"])
	assert.Equal(t, "b", got[1].ID())
}

func Test_MergeByID_Is_Idempotent_When_Merging_List_With_Itself(t *testing.T) {
	t.Parallel()

	list := withIDs("x", "y", "z")

	got := drafts.MergeByID(list, list)

	diff := cmp.Diff(ids(list), ids(got))
	assert.Empty(t, diff, "merge with self changed the list (-want +got)")
}

func Test_MergeByID_Drops_Records_When_ID_Missing(t *testing.T) {
	t.Parallel()

	primary := []drafts.Draft{{"prompt": "no id"}, {"id": nil}, {"id": ""}, {"id": "a"}}

	got := drafts.MergeByID(primary, nil)

	diff := cmp.Diff([]string{"a"}, ids(got))
	assert.Empty(t, diff, "merged ids mismatch (-want +got)")
}

func Test_MergeByID_Returns_Empty_List_When_Inputs_Nil(t *testing.T) {
	t.Parallel()

	got := drafts.MergeByID(nil, nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func Test_MergeByID_Treats_Numeric_And_String_IDs_As_Equal_When_Normalized(t *testing.T) {
	t.Parallel()

	got := drafts.MergeByID(withIDs(float64(12)), withIDs("12", "13"))

	diff := cmp.Diff([]string{"12", "13"}, ids(got))
	assert.Empty(t, diff, "merged ids mismatch (-want +got)")
}

func Test_MergeByID_Does_Not_Mutate_Inputs_When_Called(t *testing.T) {
	t.Parallel()

	primary := withIDs("a", "b")
	secondary := withIDs("b", "c")

	_ = drafts.MergeByID(primary, secondary)

	assert.Equal(t, []string{"a", "b"}, ids(primary))
	assert.Equal(t, []string{"b", "c"}, ids(secondary))
}

func Test_AppendUnique_Appends_Only_New_IDs_When_Paginating(t *testing.T) {
	t.Parallel()

	existing := withIDs("a", "b")
	incoming := withIDs("b", "c", "c", "d", "")

	got := drafts.AppendUnique(existing, incoming)

	diff := cmp.Diff([]string{"a", "b", "c", "d"}, ids(got))
	assert.Empty(t, diff, "appended ids mismatch (-want +got)")
	assert.Len(t, existing, 2, "existing must not grow")
}

func Test_AppendUnique_Keeps_Existing_Records_When_They_Lack_An_ID(t *testing.T) {
	t.Parallel()

	existing := []drafts.Draft{{"prompt": "local"}, {"id": "a"}}

	got := drafts.AppendUnique(existing, withIDs("a", "b"))

	require.Len(t, got, 3)
	assert.Equal(t, "local", got[0]["prompt"])
	assert.Equal(t, "b", got[2].ID())
}

func Test_RemoveByID_Removes_All_Matches_When_ID_Given(t *testing.T) {
	t.Parallel()

	list := []drafts.Draft{{"id": "a"}, {"id": "b"}, {"id": "a"}, {"prompt": "no id"}}

	got := drafts.RemoveByID(list, "a")

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID())
	assert.Equal(t, "no id", got[1]["prompt"])
	assert.Len(t, list, 4, "input must not change")
}

func Test_RemoveByID_Returns_Copy_When_ID_Empty(t *testing.T) {
	t.Parallel()

	list := withIDs("a", "b")

	for _, id := range []any{nil, ""} {
		got := drafts.RemoveByID(list, id)

		assert.Equal(t, ids(list), ids(got))

		got[0] = drafts.Draft{"id": "changed"}
		assert.Equal(t, "a", list[0].ID(), "result must not alias input")
	}
}

func Test_RemoveByID_Matches_Normalized_IDs_When_Types_Differ(t *testing.T) {
	t.Parallel()

	got := drafts.RemoveByID(withIDs(float64(5), "6"), 5)

	assert.Equal(t, []string{"6"}, ids(got))
}

func Test_IDSet_Preserves_Insertion_Order_When_Adding_And_Removing(t *testing.T) {
	t.Parallel()

	s := drafts.NewIDSet("b", "", "a", "b", "c")

	assert.Equal(t, []string{"b", "a", "c"}, s.IDs())
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.False(t, s.Add("b"))
	assert.True(t, s.Add("a"))
	assert.Equal(t, []string{"b", "c", "a"}, s.IDs())
	assert.Equal(t, 3, s.Len())
}

func Test_IDSet_Behaves_As_Empty_When_Nil(t *testing.T) {
	t.Parallel()

	var s *drafts.IDSet

	assert.False(t, s.Has("a"))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
}

func Test_IDSet_Normalizes_Values_When_Decoding_JSON(t *testing.T) {
	t.Parallel()

	var s drafts.IDSet

	err := s.UnmarshalJSON([]byte(`["a", 12, null, "", "a", true]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "12", "true"}, s.IDs())

	encoded, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["a","12","true"]`, string(encoded))
}

func Test_Page_Unwraps_List_Responses_When_Shape_Varies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload any
		want    []string
	}{
		{name: "BareArray", payload: []any{map[string]any{"id": "a"}, "skip", map[string]any{"id": "b"}}, want: []string{"a", "b"}},
		{name: "Items", payload: map[string]any{"items": []any{map[string]any{"id": "c"}}}, want: []string{"c"}},
		{name: "DataItems", payload: map[string]any{"data": map[string]any{"items": []any{map[string]any{"id": "d"}}}}, want: []string{"d"}},
		{name: "Scalar", payload: "nope", want: []string{}},
		{name: "ObjectWithoutItems", payload: map[string]any{"id": "x"}, want: []string{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := drafts.Page(testCase.payload)

			require.NotNil(t, got)
			assert.Equal(t, testCase.want, ids(got))
		})
	}
}
