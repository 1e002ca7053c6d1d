package drafts_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/uvd/pkg/drafts"
)

func Test_ModeRequiresSource_Gates_Remix_And_Extend_When_Mode_Given(t *testing.T) {
	t.Parallel()

	assert.True(t, drafts.ModeRequiresSource("remix"))
	assert.True(t, drafts.ModeRequiresSource("  REMIX  "))
	assert.True(t, drafts.ModeRequiresSource("extend"))
	assert.False(t, drafts.ModeRequiresSource("compose"))
	assert.False(t, drafts.ModeRequiresSource("trim"))
	assert.False(t, drafts.ModeRequiresSource(""))
}

func Test_ClampGensCount_Rounds_And_Clamps_When_Value_Out_Of_Range(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value float64
		ultra bool
		want  int
	}{
		{name: "Zero", value: 0, want: 1},
		{name: "Negative", value: -4, want: 1},
		{name: "AboveDefault", value: 11, want: 10},
		{name: "AboveDefaultLarge", value: 25, want: 10},
		{name: "UltraAllowsMore", value: 25, ultra: true, want: 25},
		{name: "UltraRoundsUp", value: 39.6, ultra: true, want: 40},
		{name: "UltraCaps", value: 99, ultra: true, want: 40},
		{name: "HalfRoundsUp", value: 2.5, want: 3},
		{name: "RoundsDown", value: 2.4, want: 2},
		{name: "NaN", value: math.NaN(), want: 1},
		{name: "Inf", value: math.Inf(1), ultra: true, want: 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, drafts.ClampGensCount(testCase.value, testCase.ultra))
		})
	}
}

func Test_PreviewText_Truncates_And_Falls_Back_When_Fields_Vary(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 65)

	assert.Equal(t, strings.Repeat("a", 60)+"...", drafts.PreviewText(drafts.Draft{"prompt": long}, 60))
	assert.Equal(t, strings.Repeat("a", 60)+"...", drafts.PreviewText(drafts.Draft{"prompt": long}, 0))
	assert.Equal(t, "Title only", drafts.PreviewText(drafts.Draft{"prompt": "", "title": "Title only"}, 60))
	assert.Equal(t, "Untitled", drafts.PreviewText(drafts.Draft{}, 60))
	assert.Equal(t, "héllo...", drafts.PreviewText(drafts.Draft{"prompt": "héllo wörld"}, 5))
	assert.Equal(t, "short", drafts.PreviewText(drafts.Draft{"prompt": "short"}, 5))
}
