package cli_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/uvd/internal/cli"
)

const pendingFeed = `[
  {"id": "t1", "prompt": "fox", "status": "running", "generations": [{"id": "g1"}, {"id": "g2", "status": "complete"}]},
  {"id": "t2", "status": "queued", "generations": [{}]}
]`

func Test_Pending_Prints_In_Flight_Generations_When_Feed_Has_Tasks(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRunWithInput(pendingFeed, "pending", "-")

	assert.Equal(t, "g1\trunning\tfox\nt2:pending:0\tqueued\tUntitled", stdout)
	cli.AssertContains(t, c.ReadState("pending.json"), `"t2:pending:0"`)
}

func Test_Pending_Reports_Dropped_IDs_When_Polled_Again(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRunWithInput(pendingFeed, "pending", "-")

	stdout := c.MustRunWithInput(`{"items": [{"id": "t1", "status": "running", "generations": [{"id": "g1"}]}]}`, "pending", "-")
	assert.Equal(t, "g1\trunning\tUntitled\ndropped t2:pending:0", stdout)

	stdout = c.MustRunWithInput(`[]`, "pending", "-")
	assert.Equal(t, "dropped g1", stdout)
}

func Test_Pending_Leaves_Cache_Alone_When_Merge_Flag_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRunWithInput(pendingFeed, "pending", "-")

	assert.Empty(t, c.MustRun("ls"))
}

func Test_Pending_Merges_And_Prunes_Cache_When_Merge_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRunWithInput(`[{"id": "old", "prompt": "done"}]`, "sync", "-")
	c.MustRunWithInput(pendingFeed, "pending", "--merge", "-")

	diff := cmp.Diff([]string{"g1", "t2:pending:0", "old"}, lsIDs(c.MustRun("ls")))
	assert.Empty(t, diff, "after first poll (-want +got)")

	diff = cmp.Diff([]string{"g1", "t2:pending:0"}, lsIDs(c.MustRun("ls", "--filter", "unsynced")))
	assert.Empty(t, diff, "unsynced (-want +got)")

	// g1 finished and was synced as a regular draft; t2's generation vanished.
	c.MustRunWithInput(`[{"id": "g1", "prompt": "fox done"}]`, "sync", "-")

	stdout := c.MustRunWithInput(`[]`, "pending", "--merge", "-")
	assert.Equal(t, "dropped g1\ndropped t2:pending:0", stdout)

	diff = cmp.Diff([]string{"g1", "old"}, lsIDs(c.MustRun("ls")))
	assert.Empty(t, diff, "after second poll (-want +got)")
}

func Test_Pending_Flattens_Bare_Generations_When_Feed_Has_No_Tasks(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRunWithInput(`[
  {"generation_id": "x1", "status": "Processing", "prompt": "waves"},
  {"id": "x2", "status": "succeeded"},
  {"status": "queued"}
]`, "pending", "-")

	assert.Equal(t, "x1\tprocessing\twaves", stdout)
}

func Test_Pending_Fails_When_Payload_Invalid(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("feed.json", "nope")

	stderr := c.MustFail("pending", "feed.json")

	cli.AssertContains(t, stderr, "invalid payload")
}
