package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anushkaEsdev/alumni-client/internal/models"
)

func contentCommands(a **app) []*cobra.Command {
	posts := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage blog posts",
	}

	postsList := &cobra.Command{
		Use:   "list",
		Short: "List blog posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).content.LoadAll(cmd.Context()); err != nil {
				return err
			}
			printPosts((*a).content.ByType(models.PostTypeBlog))
			return nil
		},
	}

	postsShow := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := (*a).content.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPostDetail(post)
			return nil
		},
	}

	var postType, meetingDate, meetingTime, question, answer, topic, difficulty, imageURL string
	postsCreate := &cobra.Command{
		Use:   "create <title> <content>",
		Short: "Create a post, event or interview question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := models.CreatePostRequest{
				Title:       args[0],
				Content:     args[1],
				Type:        models.PostType(postType),
				MeetingDate: meetingDate,
				MeetingTime: meetingTime,
				Question:    question,
				Answer:      answer,
				Topic:       topic,
				Difficulty:  difficulty,
				ImageURL:    imageURL,
			}
			_, err := (*a).content.Create(cmd.Context(), draft)
			return err
		},
	}
	postsCreate.Flags().StringVar(&postType, "type", string(models.PostTypeBlog), "blog, interview or meeting")
	postsCreate.Flags().StringVar(&meetingDate, "date", "", "event date (YYYY-MM-DD)")
	postsCreate.Flags().StringVar(&meetingTime, "time", "", "event time (HH:MM)")
	postsCreate.Flags().StringVar(&question, "question", "", "interview question")
	postsCreate.Flags().StringVar(&answer, "answer", "", "interview answer")
	postsCreate.Flags().StringVar(&topic, "topic", "", "interview topic")
	postsCreate.Flags().StringVar(&difficulty, "difficulty", "", "interview difficulty")
	postsCreate.Flags().StringVar(&imageURL, "image-url", "", "image reference")

	postsDelete := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).content.Delete(cmd.Context(), args[0])
		},
	}
	posts.AddCommand(postsList, postsShow, postsCreate, postsDelete)

	events := &cobra.Command{
		Use:   "events",
		Short: "Upcoming events, soonest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).content.LoadAll(cmd.Context()); err != nil {
				return err
			}
			for _, e := range (*a).content.UpcomingEvents() {
				fmt.Printf("%s %s  %s  (%s)\n", e.MeetingDate, e.MeetingTime, e.Title, e.ID)
			}
			return nil
		},
	}

	questions := &cobra.Command{
		Use:   "questions",
		Short: "List interview questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).content.LoadAll(cmd.Context()); err != nil {
				return err
			}
			for _, q := range (*a).content.ByType(models.PostTypeInterview) {
				fmt.Printf("[%s] %s  (%s)\n", q.Topic, q.Title, q.ID)
			}
			return nil
		},
	}

	comment := &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).content.AddComment(cmd.Context(), args[0], args[1])
		},
	}

	like := &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).content.Like(cmd.Context(), args[0])
		},
	}

	unlike := &cobra.Command{
		Use:   "unlike <post-id>",
		Short: "Remove a like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).content.Unlike(cmd.Context(), args[0])
		},
	}

	return []*cobra.Command{posts, events, questions, comment, like, unlike}
}

func printPosts(posts []models.Post) {
	for _, p := range posts {
		fmt.Printf("%s  %s  by %s  (%d likes, %d comments)\n",
			p.CreatedAt.Format("2006-01-02"), p.Title, p.Author.Username, p.Likes, len(p.Comments))
	}
}

func printPostDetail(p models.Post) {
	fmt.Printf("%s\nby %s on %s\n\n%s\n", p.Title, p.Author.Username, p.CreatedAt.Format("2006-01-02"), p.Content)
	if p.Type == models.PostTypeMeeting {
		fmt.Printf("\nWhen: %s %s\n", p.MeetingDate, p.MeetingTime)
	}
	if p.Type == models.PostTypeInterview && p.Answer != "" {
		fmt.Printf("\nAnswer: %s\n", p.Answer)
	}
	if len(p.Comments) > 0 {
		fmt.Printf("\n%s\n", strings.Repeat("-", 40))
		for _, c := range p.Comments {
			fmt.Printf("%s: %s\n", c.Author.Username, c.Content)
		}
	}
}
