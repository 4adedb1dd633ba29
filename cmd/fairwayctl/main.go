// Command fairwayctl talks to the Fairway API from a terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fairway/backend/internal/client"
	"fairway/backend/internal/feed"
	"fairway/backend/internal/models"
	"fairway/backend/internal/settings"
	"fairway/backend/pkg/jwt"
)

const usage = `Usage: fairwayctl [flags] <command> [args]

Commands:
  feed                         print the first page(s) of your feed
  react <round-id> <type>      toggle a reaction (fire, clap, dart, goat, vomit, clown, skull, laugh)
  comment <round-id> <text>    comment on a round
  settings get                 show the feed settings (admin)
  settings set [--mode --ratio --limit]
                               change the feed settings (admin)
  dashboard                    show the admin dashboard (admin)
  token <user-id> [email]      mint a development access token (needs --secret)

Flags:
`

type app struct {
	api *client.Client
	out io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fairwayctl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("fairwayctl", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	fs.String("api", "http://localhost:8080/api/v1", "API base URL (FAIRWAY_API)")
	fs.String("token", "", "access token (FAIRWAY_TOKEN)")
	fs.Int("pages", 1, "feed pages to load")
	fs.Int("page-size", client.DefaultPageSize, "feed page size")
	fs.Duration("timeout", 30*time.Second, "overall timeout")
	fs.String("mode", "", "settings set: following, mixed or discover")
	fs.Float64("ratio", -1, "settings set: discovery ratio in [0,1]")
	fs.Int("limit", 0, "settings set: feed page size")
	fs.String("secret", "", "token: signing secret (FAIRWAY_SECRET)")
	fs.Duration("ttl", jwt.DefaultTTL, "token: lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("FAIRWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, v.GetDuration("timeout"))
	defer cancel()

	a := &app{
		api: client.New(v.GetString("api"), v.GetString("token")),
		out: out,
	}

	switch rest[0] {
	case "feed":
		return a.feed(ctx, v.GetInt("pages"), v.GetInt("page-size"))
	case "react":
		if len(rest) != 3 {
			return errors.New("usage: react <round-id> <type>")
		}
		return a.react(ctx, rest[1], models.ReactionType(rest[2]))
	case "comment":
		if len(rest) < 3 {
			return errors.New("usage: comment <round-id> <text>")
		}
		return a.comment(ctx, rest[1], strings.Join(rest[2:], " "))
	case "settings":
		if len(rest) != 2 {
			return errors.New("usage: settings get|set")
		}
		switch rest[1] {
		case "get":
			s, err := a.api.FeedSettings(ctx)
			if err != nil {
				return err
			}
			return a.printJSON(s)
		case "set":
			return a.setSettings(ctx, fs, v)
		}
		return fmt.Errorf("unknown settings command %q", rest[1])
	case "token":
		if len(rest) < 2 || len(rest) > 3 {
			return errors.New("usage: token <user-id> [email]")
		}
		secret := v.GetString("secret")
		if secret == "" {
			return errors.New("token needs --secret or FAIRWAY_SECRET")
		}
		email := ""
		if len(rest) == 3 {
			email = rest[2]
		}
		tok, err := jwt.GenerateToken(rest[1], email, secret, v.GetDuration("ttl"))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, tok)
		return err
	case "dashboard":
		row, err := a.api.Dashboard(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(row)
	}
	return fmt.Errorf("unknown command %q", rest[0])
}

func (a *app) feed(ctx context.Context, pages, pageSize int) error {
	session := a.api.OpenFeed(ctx, pageSize)
	defer session.Close()

	for i := 0; i < pages && !session.Done(); i++ {
		if _, err := session.LoadMore(); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUND\tPLAYER\tCOURSE\tSCORE\tVS PAR\tREACTIONS\tCOMMENTS\tSOURCE")
	for _, r := range session.Rounds() {
		player := feed.AnonymousAuthor
		if r.Author != nil {
			player = r.Author.Username
		}
		vsPar := "-"
		if r.VsPar != nil {
			vsPar = *r.VsPar
		}
		total := 0
		for _, n := range r.Reactions {
			total += n
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
			r.ID, player, r.DisplayName, r.TotalScore, vsPar, total, len(r.Comments), r.Source)
	}
	return tw.Flush()
}

func (a *app) react(ctx context.Context, roundID string, t models.ReactionType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown reaction type %q", t)
	}
	res, err := a.api.ToggleReaction(ctx, roundID, t)
	if err != nil {
		return err
	}
	return a.printJSON(res)
}

func (a *app) comment(ctx context.Context, roundID, text string) error {
	c, err := a.api.AddComment(ctx, roundID, text)
	if err != nil {
		return err
	}
	return a.printJSON(c)
}

// setSettings sends only the flags that were given, as a merge patch.
func (a *app) setSettings(ctx context.Context, fs *pflag.FlagSet, v *viper.Viper) error {
	patch := map[string]any{}
	if fs.Changed("mode") {
		patch["mode"] = settings.Mode(v.GetString("mode"))
	}
	if fs.Changed("ratio") {
		patch["discoveryRatio"] = v.GetFloat64("ratio")
	}
	if fs.Changed("limit") {
		patch["feedLimit"] = v.GetInt("limit")
	}
	if len(patch) == 0 {
		return errors.New("settings set needs at least one of --mode, --ratio, --limit")
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	s, err := a.api.PatchFeedSettings(ctx, raw)
	if err != nil {
		return err
	}
	return a.printJSON(s)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
