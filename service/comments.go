package service

import (
	"fmt"
	"io"
	"net/http"

	"commentboard/app/client"
	"commentboard/app/models"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *cli) newCommentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and change comments on a running board",
	}
	cmd.PersistentFlags().String("base-url", client.DefaultBaseURL, "board API base URL")
	_ = c.v.BindPFlag("client.base_url", cmd.PersistentFlags().Lookup("base-url"))

	cmd.AddCommand(
		c.newListCommand(),
		c.newRepliesCommand(),
		c.newAddCommand(),
		c.newReplyCommand(),
		c.newDeleteCommand(),
		c.newDeleteReplyCommand(),
	)
	return cmd
}

func (c *cli) client() *client.Client {
	return client.NewClient(c.cfg.Client.BaseURL, &http.Client{Timeout: c.cfg.Client.Timeout})
}

func (c *cli) newListCommand() *cobra.Command {
	var expand bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List comments with their first reply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board := client.NewBoard(c.client(), c.logger)
			if err := board.Load(cmd.Context()); err != nil {
				return err
			}
			if expand {
				for _, comment := range board.Comments() {
					if err := board.MoreReplies(cmd.Context(), comment.ID); err != nil {
						return err
					}
				}
			}
			printBoard(cmd.OutOrStdout(), board.Comments())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expand, "expand", false, "fetch every reply of every comment")
	return cmd
}

func (c *cli) newRepliesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replies <comment-id>",
		Short: "Show the replies of a comment after the first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replies, err := c.client().GetMoreReplies(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, r := range replies {
				printReply(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}

func (c *cli) newAddCommand() *cobra.Command {
	var input models.NewComment
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Post a comment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := c.client().CreateComment(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created comment %s\n", comment.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Author, "author", "", "comment author")
	cmd.Flags().StringVar(&input.Body, "body", "", "comment text")
	return cmd
}

func (c *cli) newReplyCommand() *cobra.Command {
	var input models.NewReply
	cmd := &cobra.Command{
		Use:   "reply <comment-id>",
		Short: "Reply to a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.CommentID = args[0]
			reply, err := c.client().CreateReply(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created reply %s\n", reply.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Author, "author", "", "reply author")
	cmd.Flags().StringVar(&input.Body, "body", "", "reply text")
	return cmd
}

func (c *cli) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment and its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := c.client().DeleteComment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %s by %s\n", deleted.ID, deleted.Author)
			return nil
		},
	}
}

func (c *cli) newDeleteReplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-reply <comment-id> <reply-id>",
		Short: "Delete one reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := c.client().DeleteReply(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted reply %s by %s\n", deleted.ID, deleted.Author)
			return nil
		},
	}
}

func printBoard(out io.Writer, comments []*models.CommentWithReplies) {
	fmt.Fprintf(out, "Comments (%d)\n", len(comments))
	for _, comment := range comments {
		fmt.Fprintf(out, "\n%s  %s, %s\n", comment.ID, comment.Author, humanize.Time(comment.PostedTime()))
		fmt.Fprintf(out, "  %s\n", comment.Body)
		for _, r := range comment.Replies {
			printReply(out, r)
		}
		if n := comment.HiddenReplies(); n > 0 {
			fmt.Fprintf(out, "    Show More Replies (%d)\n", n)
		}
	}
}

func printReply(out io.Writer, r *models.Reply) {
	fmt.Fprintf(out, "    > %s  %s, %s: %s\n", r.ID, r.Author, humanize.Time(r.PostedTime()), r.Body)
}
