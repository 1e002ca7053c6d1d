package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/uvd/internal/cli"
)

func Test_View_Prints_Defaults_When_Nothing_Saved(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	assert.Equal(t, "filter=all\nsort=newest\nworkspace=\nquery=", c.MustRun("view"))
}

func Test_View_Saves_Changes_When_Flags_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	want := "filter=new\nsort=oldest\nworkspace=w1\nquery=model:sora2 neon"

	assert.Equal(t, want, c.MustRun("view", "--filter", "new", "--sort", "oldest",
		"--workspace", " w1 ", "--query", "model:sora2 neon"))
	assert.Equal(t, want, c.MustRun("view"))
	cli.AssertContains(t, c.ReadState("view.json"), `"workspaceFilter": "w1"`)

	assert.Equal(t, "filter=new\nsort=oldest\nworkspace=\nquery=model:sora2 neon",
		c.MustRun("view", "--workspace", "-"))

	assert.Equal(t, "filter=all\nsort=newest\nworkspace=\nquery=", c.MustRun("view", "--reset"))
}

func Test_View_Falls_Back_Per_Field_When_Saved_State_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".uvd/view.json", `{"filterState": "starred", "sortState": " Duration ", "workspaceFilter": "  ", "searchQuery": "neon"}`)

	assert.Equal(t, "filter=all\nsort=newest\nworkspace=\nquery=neon", c.MustRun("view"))
}

func Test_View_Falls_Back_To_Defaults_When_Saved_State_Not_JSON(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".uvd/view.json", `not json`)

	assert.Equal(t, "filter=all\nsort=newest\nworkspace=\nquery=", c.MustRun("view"))
}

func Test_View_Fails_When_Filter_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("view", "--filter", "starred")

	cli.AssertContains(t, stderr, "invalid filter state")
}
