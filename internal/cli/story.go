package cli

import (
	"github.com/spf13/cobra"
)

func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Story commands",
	}

	cmd.AddCommand(newStoryListCmd())
	cmd.AddCommand(newStoryGetCmd())
	cmd.AddCommand(newStoryCreateCmd())
	cmd.AddCommand(newStoryAddCmd())
	cmd.AddCommand(newStoryEndCmd())
	cmd.AddCommand(newStoryDeleteCmd())

	return cmd
}

func newStoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stories you participate in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StoriesResult

			if err := client.Get(cmd.Context(), "/api/stories", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newStoryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <story-id>",
		Short: "Show a story with its words and participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StoryDetailResult

			if err := client.Get(cmd.Context(), pathf("/api/stories/%s", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newStoryCreateCmd() *cobra.Command {
	var title, word string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new story",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if cmd.Flags().Changed("title") {
				req["title"] = title
			}
			if word != "" {
				req["initialWord"] = word
			}
			var result StoryResult

			if err := client.Post(cmd.Context(), "/api/stories", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Story title")
	cmd.Flags().StringVar(&word, "word", "", "Opening word")

	return cmd
}

func newStoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <story-id> <word>",
		Short: "Add a word on your turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WordResult

			req := map[string]string{"word": args[1]}
			if err := client.Post(cmd.Context(), pathf("/api/stories/%s/words", args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newStoryEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <story-id>",
		Short: "End a story on your turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EndResult

			if err := client.Post(cmd.Context(), pathf("/api/stories/%s/end", args[0]), nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newStoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a story you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MessageResult

			if err := client.Delete(cmd.Context(), pathf("/api/stories/%s", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
