package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"panelkit/internal/livefield"
)

func newPatchCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patch ENDPOINT FIELD VALUE",
		Short: "Update a single field of a resource",
		Long: `Send {FIELD: VALUE} as a PATCH to ENDPOINT. VALUE is read as JSON when it
parses (true, 3, "x"), otherwise as a plain string. The CSRF token is taken
from the csrftoken entry of --cookie.`,
		Example: `  panelctl patch /api/panel/events/6f1c.../ is_public true --cookie "csrftoken=abc"`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := livefield.New(g.httpClient(), args[0], args[1], g.csrf(),
				livefield.WithCSRFHeader(g.csrfHeader()))
			value := parseValue(args[2])
			if err := field.Set(cmd.Context(), value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", field.Name())
			return nil
		},
	}
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
