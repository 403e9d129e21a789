// Package main provides the home controller CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/phasebox/internal/api/connect"
	"github.com/osa030/phasebox/internal/app/notification"
)

var (
	app    = kingpin.New("phasebox-homecli", "phasebox home controller client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token (or set PHASEBOX_CONTROL_TOKEN env)").Envar("PHASEBOX_CONTROL_TOKEN").String()

	// status command
	statusCmd = app.Command("status", "Show the transport state")

	// list command
	listCmd = app.Command("list", "List playlist items")

	// add command
	addCmd       = app.Command("add", "Append an item")
	addName      = addCmd.Arg("name", "Display name").Required().String()
	addThumbnail = addCmd.Arg("thumbnail", "Thumbnail path").Required().String()
	addAudio     = addCmd.Arg("audio", "Audio path").Required().String()

	// remove command
	removeCmd   = app.Command("remove", "Remove an item by ID or --index")
	removeID    = removeCmd.Arg("id", "Item ID").String()
	removeIndex = removeCmd.Flag("index", "Zero-based position").Default("-1").Int()

	// press-remove command
	pressRemoveCmd = app.Command("press-remove", "Press the remove button of a row")
	pressRemoveID  = pressRemoveCmd.Arg("id", "Item ID").Required().String()

	// toggle command
	toggleCmd = app.Command("toggle", "Toggle play/pause")

	// ff command
	ffCmd = app.Command("ff", "Fast forward one step")

	// rewind command
	rewindCmd = app.Command("rewind", "Rewind one step")

	// play command
	playCmd = app.Command("play", "Play an item")
	playID  = playCmd.Arg("id", "Item ID").Required().String()

	// watch command
	watchCmd = app.Command("watch", "Watch controller notifications")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := apiconnect.NewHomeServiceClient(http.DefaultClient, *server, *token)
	ctx := context.Background()

	switch command {
	case statusCmd.FullCommand():
		status(ctx, client)
	case listCmd.FullCommand():
		list(ctx, client)
	case addCmd.FullCommand():
		add(ctx, client)
	case removeCmd.FullCommand():
		remove(ctx, client)
	case pressRemoveCmd.FullCommand():
		pressRemove(ctx, client)
	case toggleCmd.FullCommand():
		printStatus(exitOnError(client.TogglePlay(ctx)))
	case ffCmd.FullCommand():
		printStatus(exitOnError(client.FastForward(ctx)))
	case rewindCmd.FullCommand():
		printStatus(exitOnError(client.Rewind(ctx)))
	case playCmd.FullCommand():
		if err := client.PlayItem(ctx, *playID); err != nil {
			fail(err)
		}
		fmt.Printf("Playing %s\n", *playID)
	case watchCmd.FullCommand():
		watch(ctx, client)
	}
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func exitOnError[T any](v *T, err error) *T {
	if err != nil {
		fail(err)
	}
	return v
}

func status(ctx context.Context, client *apiconnect.HomeServiceClient) {
	printStatus(exitOnError(client.GetStatus(ctx)))
}

func printStatus(s *apiconnect.StatusResponse) {
	fmt.Println("=== Transport ===")
	fmt.Printf("Mode:       %s\n", formatMode(s.Mode))
	fmt.Printf("Position:   %s / %s\n", s.Elapsed, s.Total)
	fmt.Printf("Seek mode:  %s\n", s.SeekMode)
	fmt.Printf("Items:      %d\n", s.Length)
	fmt.Printf("Remove btn: %s\n", formatBinding(s.RemoveButtonWired))
}

func formatMode(mode string) string {
	switch mode {
	case "playing":
		return "▶️  Playing"
	case "paused":
		return "⏸  Paused"
	default:
		return "❓ Unknown"
	}
}

func formatBinding(wired bool) string {
	if wired {
		return "wired"
	}
	return "inert"
}

func list(ctx context.Context, client *apiconnect.HomeServiceClient) {
	resp := exitOnError(client.ListItems(ctx))

	fmt.Printf("=== Playlist (%d) ===\n", len(resp.Items))
	for _, it := range resp.Items {
		thumb := it.Thumbnail
		if it.FellBack {
			thumb += " (fallback)"
		}
		fmt.Printf("%2d. %-20s id=%s\n", it.Index, it.Name, it.ID)
		fmt.Printf("    thumbnail=%s audio=%s\n", thumb, it.AudioPath)
	}
}

func add(ctx context.Context, client *apiconnect.HomeServiceClient) {
	resp := exitOnError(client.AddItem(ctx, &apiconnect.AddItemRequest{
		Name:          *addName,
		ThumbnailPath: *addThumbnail,
		AudioPath:     *addAudio,
	}))
	fmt.Printf("Added: id=%s\n", resp.ID)
}

func remove(ctx context.Context, client *apiconnect.HomeServiceClient) {
	req := &apiconnect.RemoveItemRequest{ID: *removeID}
	if *removeID == "" {
		if *removeIndex < 0 {
			fmt.Println("Error: item ID or --index is required")
			os.Exit(1)
		}
		req.Index = removeIndex
	}

	resp := exitOnError(client.RemoveItem(ctx, req))
	if resp.Removed {
		fmt.Println("Removed")
	} else {
		fmt.Println("Nothing removed")
	}
}

func pressRemove(ctx context.Context, client *apiconnect.HomeServiceClient) {
	resp := exitOnError(client.PressRemove(ctx, *pressRemoveID))
	if resp.Removed {
		fmt.Println("Removed")
	} else {
		fmt.Println("Button pressed, remove is not bound")
	}
}

func watch(ctx context.Context, client *apiconnect.HomeServiceClient) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := client.Subscribe(ctx)
	if err != nil {
		fail(err)
	}
	defer stream.Close()

	fmt.Println("Watching notifications. Press Ctrl+C to exit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nStopping...")
		cancel()
	}()

	for stream.Receive() {
		printNotification(stream.Msg())
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		fail(err)
	}
}

func printNotification(n *notification.Notification) {
	switch n.Type {
	case notification.TypeInitialState:
		fmt.Printf("[#%d] initial: %s %s/%s items=%d\n", n.SequenceNo, n.Mode, n.Elapsed, n.Total, n.Length)
	case "playlist_changed":
		fmt.Printf("[#%d] playlist changed: item=%s items=%d\n", n.SequenceNo, n.ItemID, n.Length)
	case "item_played":
		fmt.Printf("[#%d] played: item=%s\n", n.SequenceNo, n.ItemID)
	default:
		fmt.Printf("[#%d] %s: %s %s/%s\n", n.SequenceNo, n.Type, n.Mode, n.Elapsed, n.Total)
	}
}
