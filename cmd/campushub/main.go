// Command campushub is a terminal client for the campus feed. Each invocation
// rebuilds the session from a token saved under the user's home directory, so
// the tool behaves like a logged-in app across runs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"campushub/internal/cache"
	"campushub/internal/client"
	"campushub/internal/config"
	"campushub/internal/gateway"
	"campushub/internal/models"
	"campushub/internal/moderation"
	"campushub/internal/session"
)

const usage = `campushub <command> [args]

Commands:
  login <username> <password>     sign in and save the session token
  logout                          drop the saved session
  feed [all|pending|approved|rejected]
                                  list posts, optionally filtered by status
  queue                           list posts awaiting moderation (moderators)
  post <title> <content>          submit a new post
  delete <id>                     delete a post
  like <id>                       toggle your like on a post
  comments <id>                   list a post's comments
  comment <id> <text>             add a comment to a post
  moderate <id> <approve|reject>  approve or reject a post (moderators)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	sess := session.New()
	if token := loadToken(); token != "" {
		if err := sess.StartFromToken(token); err != nil {
			// Expired or garbled token; fall back to signed-out.
			clearToken()
		}
	}

	gw := gateway.NewHTTPGateway(cfg.APIURL, time.Duration(cfg.RequestTimeout)*time.Second, sess)
	app := client.New(gw, sess, client.WithCacheTTL(time.Duration(cfg.CacheTTL)*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		if models.IsCode(err, models.CodeSessionExpired) {
			clearToken()
			fmt.Fprintln(os.Stderr, "Session expired; please log in again")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *client.Client, command string, args []string) error {
	switch command {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: campushub login <username> <password>")
		}
		if err := app.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		if err := saveToken(app.Session().Token()); err != nil {
			return err
		}
		if user, ok := app.Session().User(); ok {
			fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
		}
		return nil

	case "logout":
		app.Logout()
		clearToken()
		fmt.Println("Logged out")
		return nil

	case "feed":
		filter := moderation.FilterAll
		if len(args) > 0 {
			filter = moderation.StatusFilter(args[0])
		}
		if _, err := app.Refresh(ctx); err != nil {
			return err
		}
		printPosts(app.Feed(filter))
		return nil

	case "queue":
		posts, err := app.PendingQueue(ctx)
		if err != nil {
			return err
		}
		printPosts(posts)
		return nil

	case "post":
		if len(args) != 2 {
			return fmt.Errorf("usage: campushub post <title> <content>")
		}
		post, err := app.CreatePost(ctx, gateway.CreatePostInput{Title: args[0], Content: args[1]})
		if err != nil {
			return err
		}
		fmt.Printf("Created post #%d (%s)\n", post.ID, post.Status)
		return nil

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if err := app.DeletePost(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted post #%d\n", id)
		return nil

	case "like":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		if _, err := app.Refresh(ctx); err != nil {
			return err
		}
		post, err := app.ToggleLike(ctx, id)
		if err != nil {
			return err
		}
		verb := "Unliked"
		if post.IsLiked {
			verb = "Liked"
		}
		fmt.Printf("%s post #%d (%d likes)\n", verb, post.ID, post.LikeCount)
		return nil

	case "comments":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		comments, err := app.Comments(ctx, id)
		if err != nil {
			return err
		}
		printComments(comments)
		return nil

	case "comment":
		if len(args) != 2 {
			return fmt.Errorf("usage: campushub comment <id> <text>")
		}
		id, err := parseID(args[:1])
		if err != nil {
			return err
		}
		if _, err := app.Refresh(ctx); err != nil {
			return err
		}
		comments, err := app.AddComment(ctx, id, args[1])
		if err != nil {
			return err
		}
		printComments(comments)
		return nil

	case "moderate":
		if len(args) != 2 {
			return fmt.Errorf("usage: campushub moderate <id> <approve|reject>")
		}
		id, err := parseID(args[:1])
		if err != nil {
			return err
		}
		if _, err := app.Refresh(ctx); err != nil {
			return err
		}
		post, err := app.Moderate(ctx, id, gateway.ModerateAction(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Post #%d is now %s\n", post.ID, post.Status)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func parseID(args []string) (uint, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("a post id is required")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", args[0])
	}
	return uint(id), nil
}

func printPosts(posts []models.Post) {
	if len(posts) == 0 {
		fmt.Println("No posts")
		return
	}
	for _, p := range posts {
		liked := " "
		if p.IsLiked {
			liked = "*"
		}
		author := p.Author.Username
		if author == "" {
			author = fmt.Sprintf("user %d", p.AuthorID)
		}
		fmt.Printf("#%-4d [%-8s] %s %3d likes  %-20s %s\n",
			p.ID, p.Status, liked, p.LikeCount, author, p.Title)
	}
}

func printComments(comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Println("No comments")
		return
	}
	for _, cm := range comments {
		author := cm.Author.Username
		if author == "" {
			author = fmt.Sprintf("user %d", cm.AuthorID)
		}
		fmt.Printf("%s  %s: %s\n", cm.CreatedAt.Format("2006-01-02 15:04"), author, cm.Content)
	}
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".campushub", "token")
}

func loadToken() string {
	path := tokenPath()
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(token string) error {
	path := tokenPath()
	if path == "" {
		return fmt.Errorf("cannot determine home directory for token storage")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func clearToken() {
	if path := tokenPath(); path != "" {
		os.Remove(path)
	}
}
