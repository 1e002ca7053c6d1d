package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/uvd/internal/cli"
)

func Test_Repl_Evaluates_Commands_And_Queries_When_Lines_Read(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".uvd.json", `{"workspaces": {"w1": "Music Lab"}}`)
	seedDrafts(t, c)

	input := "filter new\n" +
		"\n" +
		"stats\n" +
		"bookmark a\n" +
		"filter bookmarked\n" +
		"ws:music\n" +
		"filter starred\n" +
		"quit\n" +
		"ls\n"

	stdout := c.MustRunWithInput(input, "repl")

	cli.AssertContains(t, stdout, "a\tn\tneon city at night\n1 of 4 drafts")
	cli.AssertContains(t, stdout, "total=4 bookmarked=0 hidden=1 new=1")
	cli.AssertContains(t, stdout, "bookmarked a")
	cli.AssertContains(t, stdout, "a\tbn\tneon city at night\n1 of 4 drafts")
	cli.AssertContains(t, stdout, `error: invalid filter state: "starred"`)

	assert.Equal(t, "filter=bookmarked\nsort=newest\nworkspace=\nquery=ws:music", c.MustRun("view"))
}

func Test_Repl_Toggles_Bookmarks_And_Marks_Seen_When_Asked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	seedDrafts(t, c)

	stdout := c.MustRunWithInput("bookmark b\nbookmark b\nseen a\nclear\n", "repl")

	cli.AssertContains(t, stdout, "bookmarked b\nunbookmarked b\nseen a\n")
	cli.AssertContains(t, stdout, "a\t-\tneon city at night")
	cli.AssertContains(t, stdout, "4 of 4 drafts")

	assert.Empty(t, c.MustRun("bookmark", "ls"))
	assert.Equal(t, "a", c.MustRun("seen"))
}

func Test_Repl_Prints_Links_And_Help_When_Asked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRunWithInput(linkDrafts, "sync", "-")

	stdout := c.MustRunWithInput("help\nPOST pub\ntrim nostory\nsort oldest\nws -\n", "repl")

	cli.AssertContains(t, stdout, "Commands:")
	cli.AssertContains(t, stdout, "https://sora.chatgpt.com/p/s%3A1")
	cli.AssertContains(t, stdout, "error: no url for draft: trim nostory")
	cli.AssertContains(t, stdout, "nostory\t-\tUntitled\npriv\t-\tUntitled\nperma\t-\tUntitled\npub\t-\tUntitled\n4 of 4 drafts")
}

func Test_Repl_Fails_When_Stdin_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("repl")

	cli.AssertContains(t, stderr, "no stdin")
}
