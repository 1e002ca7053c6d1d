package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/uvd/internal/cli"
)

func Test_Override_Rewrites_Body_When_Overrides_Given(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
		args []string
		want string
	}{
		{
			name: "prompt on both levels",
			body: `{"prompt": "old", "n": [1, 2]}`,
			args: []string{"--prompt", " new "},
			want: `{"prompt":"new","n":[1,2],"creation_config":{"prompt":"new"}}`,
		},
		{
			name: "seed digits in creation config",
			body: `{"creation_config": {"style": "noir"}}`,
			args: []string{"--seed", "12a34", "--mode", "remix"},
			want: `{"creation_config":{"style":"noir","seed":"1234"},"mode":"remix"}`,
		},
		{
			name: "no overrides",
			body: `{"prompt": "old"}`,
			args: []string{"--prompt", "  "},
			want: `{"prompt": "old"}`,
		},
		{
			name: "not json",
			body: `prompt=old`,
			args: []string{"--prompt", "new"},
			want: `prompt=old`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteFile("body.json", testCase.body+"\n")

			got := c.MustRun(append(append([]string{"override"}, testCase.args...), "body.json")...)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func Test_Override_Updates_Nested_Body_When_Read_From_Stdin(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	got := c.MustRunWithInput(`{"body": "{\"model\":\"a\"}"}`, "override", "--model", "b", "-")

	assert.Equal(t, `{"body":"{\"model\":\"b\",\"creation_config\":{\"model\":\"b\"}}","creation_config":{"model":"b"},"model":"b"}`, got)
}
