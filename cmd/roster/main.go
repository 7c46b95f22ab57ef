// Command roster prints the current user roster, standing in for the UI
// component that renders the roster store.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"

	"conduit/pkg/apiclient"
	"conduit/pkg/roster"
)

func main() {
	viper.AutomaticEnv()
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	api := apiclient.New(viper.GetString("API_BASE_URL"))
	store := roster.NewStore(ctx, roster.NewService(api))

	state := store.State()
	if state.Err != nil {
		fmt.Fprintf(os.Stderr, "failed to load roster: %v\n", state.Err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, entry := range state.Entries {
		keys := make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprintf(w, "%s=%v", k, entry[k])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
