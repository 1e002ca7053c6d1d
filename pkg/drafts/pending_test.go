package drafts_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/uvd/pkg/drafts"
)

func Test_FlattenPending_Inherits_Task_Fields_When_Payload_Holds_Tasks(t *testing.T) {
	t.Parallel()

	payload := []any{
		map[string]any{
			"id":     "task_1",
			"status": "PENDING",
			"prompt": "city at night",
			"generations": []any{
				map[string]any{"id": "gen_1", "creation_config": map[string]any{"n_frames": float64(300)}},
				map[string]any{"generation_id": "gen_2", "prompt": ""},
			},
		},
	}

	got := drafts.FlattenPending(payload)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"gen_1", "gen_2"}, ids(got))

	for _, rec := range got {
		assert.Equal(t, "task_1", rec["task_id"])
		assert.Equal(t, "city at night", rec["prompt"])
		assert.Equal(t, "pending", rec["pending_status"])
		assert.Equal(t, "pending", rec["pending_task_status"])
		assert.Equal(t, true, rec["is_pending"])

		cc, ok := rec["creation_config"].(map[string]any)
		require.True(t, ok, "creation_config must be an object")
		assert.Equal(t, "city at night", cc["prompt"])
	}

	cc := got[0]["creation_config"].(map[string]any)
	assert.InDelta(t, 300, cc["n_frames"], 0)
}

func Test_FlattenPending_Does_Not_Mutate_Payload_When_Backfilling(t *testing.T) {
	t.Parallel()

	cc := map[string]any{"n_frames": float64(150)}
	gen := map[string]any{"id": "gen_1", "creation_config": cc}
	payload := []any{map[string]any{"id": "t", "prompt": "p", "generations": []any{gen}}}

	_ = drafts.FlattenPending(payload)

	assert.NotContains(t, gen, "prompt")
	assert.NotContains(t, gen, "is_pending")
	assert.NotContains(t, cc, "prompt")
}

func Test_FlattenPending_Resolves_IDs_When_Payload_Wraps_Items(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"data": map[string]any{
			"items": []any{
				map[string]any{"draft_id": "draft_1", "status": "Queued"},
				map[string]any{"generation_id": "gen_3"},
				map[string]any{"status": "pending"},
				map[string]any{"id": "done", "status": "succeeded"},
				"not an object",
			},
		},
	}

	got := drafts.FlattenPending(payload)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"draft_1", "gen_3"}, ids(got))
	assert.Equal(t, "queued", got[0]["pending_status"])
	assert.Equal(t, "pending", got[1]["pending_status"])
	assert.NotContains(t, got[0], "task_id")
}

func Test_FlattenPending_Skips_Finished_Generations_When_Task_Status_Varies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		task       map[string]any
		wantIDs    []string
		wantStatus []string
	}{
		{
			name: "CompletedTaskKeepsRunningGeneration",
			task: map[string]any{
				"id":     "t1",
				"status": "completed",
				"generations": []any{
					map[string]any{"id": "gen_done"},
					map[string]any{"id": "gen_pending", "status": "running"},
				},
			},
			wantIDs:    []string{"gen_pending"},
			wantStatus: []string{"running"},
		},
		{
			name: "RunningTaskDropsFailedGeneration",
			task: map[string]any{
				"id":     "t2",
				"status": "running",
				"generations": []any{
					map[string]any{"id": "gen_keep"},
					map[string]any{"id": "gen_fail", "status": "failed"},
				},
			},
			wantIDs:    []string{"gen_keep"},
			wantStatus: []string{"running"},
		},
		{
			name: "MissingGenerationIDFallsBackToIndex",
			task: map[string]any{
				"id": "t3",
				"generations": []any{
					"skipped",
					map[string]any{"status": "in_progress"},
				},
			},
			wantIDs:    []string{"t3:pending:1"},
			wantStatus: []string{"in_progress"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := drafts.FlattenPending(map[string]any{"items": []any{testCase.task}})

			diff := cmp.Diff(testCase.wantIDs, ids(got))
			assert.Empty(t, diff, "ids mismatch (-want +got)")

			statuses := make([]string, 0, len(got))
			for _, rec := range got {
				statuses = append(statuses, rec["pending_status"].(string))
			}

			assert.Equal(t, testCase.wantStatus, statuses)
		})
	}
}

func Test_FlattenPending_Treats_Whole_Batch_As_Tasks_When_Any_Item_Is_A_Task(t *testing.T) {
	t.Parallel()

	payload := []any{
		map[string]any{"id": "loose", "status": "pending"},
		map[string]any{"id": "t1", "generations": []any{map[string]any{"id": "g1"}}},
	}

	got := drafts.FlattenPending(payload)

	assert.Equal(t, []string{"g1"}, ids(got))
}

func Test_FlattenPending_Returns_Empty_List_When_Payload_Unusable(t *testing.T) {
	t.Parallel()

	for _, payload := range []any{nil, "text", float64(3), map[string]any{"items": "no"}, []any{}} {
		got := drafts.FlattenPending(payload)

		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func Test_LooksLikeTask_Requires_ID_And_Generations_When_Checking(t *testing.T) {
	t.Parallel()

	assert.True(t, drafts.LooksLikeTask(map[string]any{"id": "t", "generations": []any{}}))
	assert.False(t, drafts.LooksLikeTask(map[string]any{"id": "t"}))
	assert.False(t, drafts.LooksLikeTask(map[string]any{"generations": []any{}}))
	assert.False(t, drafts.LooksLikeTask(map[string]any{"id": "t", "generations": "x"}))
	assert.False(t, drafts.LooksLikeTask("t"))
}

func Test_IsPendingStatus_Normalizes_Case_When_Checking(t *testing.T) {
	t.Parallel()

	assert.True(t, drafts.IsPendingStatus(nil))
	assert.True(t, drafts.IsPendingStatus("  "))
	assert.True(t, drafts.IsPendingStatus("IN-PROGRESS"))
	assert.True(t, drafts.IsPendingStatus(" Retrying "))
	assert.False(t, drafts.IsPendingStatus("succeeded"))
	assert.False(t, drafts.IsPendingStatus("cancelled"))
}

func Test_DroppedIDs_Returns_Missing_IDs_In_Previous_Order_When_Polling(t *testing.T) {
	t.Parallel()

	got := drafts.DroppedIDs(drafts.NewIDSet("a", "b", "c"), drafts.NewIDSet("b", "c", "d"))
	assert.Equal(t, []string{"a"}, got)

	got = drafts.DroppedIDs(drafts.NewIDSet("x", "y"), nil)
	assert.Equal(t, []string{"x", "y"}, got)

	got = drafts.DroppedIDs(nil, drafts.NewIDSet("x"))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func Test_DroppedIDs_Tracks_Completions_When_Feed_Is_Polled_Twice(t *testing.T) {
	t.Parallel()

	first := drafts.FlattenPending([]any{
		map[string]any{"id": "draft_pending_1", "status": "pending"},
		map[string]any{"id": "draft_pending_2", "status": "running"},
	})
	second := drafts.FlattenPending([]any{
		map[string]any{"id": "draft_pending_2", "status": "running"},
	})

	dropped := drafts.DroppedIDs(drafts.IDSetOf(first), drafts.IDSetOf(second))
	assert.Equal(t, []string{"draft_pending_1"}, dropped)

	before := drafts.FlattenPending([]any{map[string]any{
		"id": "task_x", "status": "pending", "generations": []any{map[string]any{"id": "draft_x"}},
	}})
	after := drafts.FlattenPending([]any{map[string]any{
		"id": "task_x", "status": "completed", "generations": []any{map[string]any{"id": "draft_x"}},
	}})

	dropped = drafts.DroppedIDs(drafts.IDSetOf(before), drafts.IDSetOf(after))
	assert.Equal(t, []string{"draft_x"}, dropped)
}
