// Package main provides the playback client entry point.
//
// The run command connects to a queue store server, polls the room's users
// and drives fair video selection. Playback itself is delegated to the
// console: the selected video's title and watch URL are printed, and the
// operator reports completion by pressing Enter (or "s" to skip).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/peltonpa/youtube-scheduler/internal/app/poller"
	"github.com/peltonpa/youtube-scheduler/internal/app/session"
	"github.com/peltonpa/youtube-scheduler/internal/domain/video"
	"github.com/peltonpa/youtube-scheduler/internal/infra/logger"
	"github.com/peltonpa/youtube-scheduler/internal/store/apiclient"
)

var (
	app     = kingpin.New("scheduler-player", "Shared YouTube queue playback client")
	server  = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	verbose = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	// run command (default)
	runCmd      = app.Command("run", "Run the playback loop for a room").Default()
	runOwnerID  = runCmd.Arg("owner-id", "Room owner ID").Required().String()
	runInterval = runCmd.Flag("poll-interval", "Snapshot poll interval").Default("5s").Duration()

	// create-owner command
	createOwnerCmd = app.Command("create-owner", "Create a new room and print its owner ID")

	// add-user command
	addUserCmd     = app.Command("add-user", "Add a user to a room")
	addUserOwnerID = addUserCmd.Arg("owner-id", "Room owner ID").Required().String()
	addUserName    = addUserCmd.Arg("name", "Display name").Required().String()

	// queue-video command
	queueVideoCmd    = app.Command("queue-video", "Append a video to a user's queue")
	queueVideoUserID = queueVideoCmd.Arg("user-id", "User ID").Required().String()
	queueVideoRef    = queueVideoCmd.Arg("video", "YouTube video ID or URL").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	client, err := apiclient.New(apiclient.Config{BaseURL: *server})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch command {
	case createOwnerCmd.FullCommand():
		createOwner(ctx, client)
	case addUserCmd.FullCommand():
		addUser(ctx, client, *addUserOwnerID, *addUserName)
	case queueVideoCmd.FullCommand():
		queueVideo(ctx, client, *queueVideoUserID, *queueVideoRef)
	case runCmd.FullCommand():
		if err := run(ctx, client, *runOwnerID, *runInterval); err != nil {
			zlog.Error().Msgf("Player error: %v", err)
			os.Exit(1)
		}
	}
}

func createOwner(ctx context.Context, client *apiclient.Client) {
	owner, err := client.CreateOwner(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Room created! Owner ID: %s\n", owner.ID)
}

func addUser(ctx context.Context, client *apiclient.Client, ownerID, name string) {
	u, err := client.CreateUser(ctx, name, ownerID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("User added! User ID: %s\n", u.ID)
}

// queueVideo reads the user's current queue, appends the normalized video id
// and writes the whole queue back. Concurrent editors of the same queue can
// lose updates; the room convention is one editor per user.
func queueVideo(ctx context.Context, client *apiclient.Client, userID, ref string) {
	id, err := video.ExtractID(ref)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	u, err := client.GetQueue(ctx, userID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	updated, err := client.ReplaceQueue(ctx, userID, append(u.VideoQueue, id))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Queued %s (%d videos in queue)\n", id, len(updated.VideoQueue))
}

// consolePlayer prints the selected video for the operator to play.
type consolePlayer struct {
	client *apiclient.Client
}

func (p *consolePlayer) Play(ctx context.Context, videoID string) error {
	title, err := p.client.ResolveTitle(ctx, videoID)
	if err != nil {
		zlog.Warn().Err(err).Str("video", videoID).Msg("player: title lookup failed")
		title = videoID
	}
	fmt.Printf("\n▶️  Now playing: %s\n   %s\n", title, video.WatchURL(videoID))
	fmt.Println("   Press Enter when the video ends, or type 's' + Enter to skip.")
	return nil
}

func run(ctx context.Context, client *apiclient.Client, ownerID string, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := session.NewManager(client, &consolePlayer{client: client}, session.Config{OwnerID: ownerID})
	defer mgr.Close()

	p := poller.New(client, mgr, mgr.RefreshRequests(), poller.Config{
		OwnerID:  ownerID,
		Interval: interval,
	})

	pollerDone := make(chan error, 1)
	go func() {
		pollerDone <- p.Run(ctx)
	}()

	go consumeEvents(mgr.Events())
	go readInput(ctx, mgr)

	zlog.Info().Msgf("Starting playback loop: owner=%s interval=%s", ownerID, interval)
	if err := mgr.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-pollerDone:
		if err != nil && err != context.Canceled {
			return err
		}
	}

	return nil
}

// consumeEvents logs session events as they happen.
func consumeEvents(events <-chan session.Event) {
	for e := range events {
		switch e.Type {
		case session.EventQueueEmpty:
			fmt.Println("\n⏳ All queues are empty, waiting for new videos...")
		case session.EventVideoEnded, session.EventVideoSkipped:
			zlog.Debug().Str("event", e.Type.String()).Msg("player: session event")
		case session.EventVideoStarted:
			zlog.Debug().
				Str("user", e.Candidate.UserID).
				Str("video", e.Candidate.VideoID).
				Msg("player: video started")
		}
	}
}

// readInput turns operator keystrokes into completion events.
func readInput(ctx context.Context, mgr *session.Manager) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var err error
		if strings.EqualFold(line, "s") {
			err = mgr.Skip(ctx)
		} else {
			err = mgr.OnVideoEnded(ctx)
		}
		if err != nil {
			zlog.Warn().Err(err).Msg("player: failed to advance")
		}
	}
}
