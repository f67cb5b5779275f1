package cli

import (
	"github.com/spf13/cobra"
)

func newInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invitation commands",
	}

	cmd.AddCommand(newInviteSendCmd())
	cmd.AddCommand(newInviteAcceptCmd())
	cmd.AddCommand(newInviteParticipantsCmd())
	cmd.AddCommand(newInvitePendingCmd())

	return cmd
}

func newInviteSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <story-id> <email>...",
		Short: "Invite people to a story by email",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"storyId": args[0],
				"emails":  args[1:],
			}
			var result InvitationsResult

			if err := client.Post(cmd.Context(), "/api/invitations", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newInviteAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <token>",
		Short: "Join a story with the token from an invitation email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AcceptResult

			if err := client.Get(cmd.Context(), pathf("/api/invitations/%s", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newInviteParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants <story-id>",
		Short: "List a story's participants in turn order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ParticipantsResult

			if err := client.Get(cmd.Context(), pathf("/api/invitations/stories/%s/participants", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newInvitePendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending <story-id>",
		Short: "List a story's unexpired, unaccepted invitations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PendingResult

			if err := client.Get(cmd.Context(), pathf("/api/invitations/stories/%s/pending", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
