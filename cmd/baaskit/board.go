package main

import (
	"fmt"
	"strings"

	"github.com/jpalmerr/baaskit"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// kindAll lists every board at once.
const kindAll = "all"

// boardCmd groups the public board endpoints.
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Read the public notice and FAQ boards",
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Long: `List posts of a board.

--kind all fetches every board concurrently and prints them keyed by kind.

Example:
  baaskit board list -c baaskit.yaml --kind notice --limit 10
  baaskit board list -c baaskit.yaml --kind all --keyword phone`,
	RunE: runBoardList,
}

var boardGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print one post",
	Long: `Print one post of a board.

Example:
  baaskit board get -c baaskit.yaml --kind faq --id 2`,
	RunE: runBoardGet,
}

func init() {
	rootCmd.AddCommand(boardCmd)
	boardCmd.AddCommand(boardListCmd, boardGetCmd)

	boardListCmd.Flags().String("kind", string(baaskit.BoardNotice), "board: notice, faq or all")
	boardListCmd.Flags().Int("offset", 0, "number of posts to skip")
	boardListCmd.Flags().Int("limit", 0, "page size; 0 uses the server default")
	boardListCmd.Flags().String("keyword", "", "filter posts by keyword")

	boardGetCmd.Flags().String("kind", string(baaskit.BoardNotice), "board: notice or faq")
	boardGetCmd.Flags().Int64("id", 0, "post id (required)")
	_ = boardGetCmd.MarkFlagRequired("id")
}

func runBoardList(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	kindFlag, _ := flags.GetString("kind")

	var kinds []baaskit.BoardKind
	if strings.EqualFold(strings.TrimSpace(kindFlag), kindAll) {
		kinds = baaskit.BoardKinds()
	} else {
		kind, err := baaskit.ParseBoardKind(kindFlag)
		if err != nil {
			return err
		}
		kinds = []baaskit.BoardKind{kind}
	}

	var opts baaskit.ListOptions
	opts.Offset, _ = flags.GetInt("offset")
	opts.Limit, _ = flags.GetInt("limit")
	opts.Keyword, _ = flags.GetString("keyword")

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	lists := make([]*baaskit.PostList, len(kinds))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, kind := range kinds {
		g.Go(func() error {
			list, err := client.Board().List(ctx, kind, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return describe(err)
	}

	if len(kinds) == 1 {
		return printJSON(cmd.OutOrStdout(), lists[0])
	}
	byKind := make(map[baaskit.BoardKind]*baaskit.PostList, len(kinds))
	for i, kind := range kinds {
		byKind[kind] = lists[i]
	}
	return printJSON(cmd.OutOrStdout(), byKind)
}

func runBoardGet(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := baaskit.ParseBoardKind(kindFlag)
	if err != nil {
		return err
	}
	id, _ := cmd.Flags().GetInt64("id")
	if id <= 0 {
		return fmt.Errorf("--id must be positive, got %d", id)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	post, err := client.Board().Get(cmd.Context(), kind, id)
	if err != nil {
		return describe(err)
	}
	return printJSON(cmd.OutOrStdout(), post)
}
