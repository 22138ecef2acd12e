package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"groceryhelper/internal/dom"
	"groceryhelper/internal/dom/htmldom"
	"groceryhelper/internal/markup"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

var errFindings = errors.New("markup check found errors")

type checkCmd struct {
	out      io.Writer
	xlsx     string
	maxDepth int
	parallel int
	http     *retryablehttp.Client
}

func newCheckCmd(out io.Writer) *checkCmd {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	return &checkCmd{out: out, http: rc}
}

func (cmd *checkCmd) command() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "check HTML files or page URLs",
		ArgsUsage: "FILE|URL...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "xlsx",
				Usage:       "also write findings to this spreadsheet",
				Destination: &cmd.xlsx,
			},
			&cli.IntFlag{
				Name:        "max-depth",
				Usage:       "ancestor hops allowed between a control and its card",
				Value:       dom.DefaultMaxDepth,
				Destination: &cmd.maxDepth,
			},
			&cli.IntFlag{
				Name:        "parallel",
				Usage:       "pages checked at once",
				Value:       4,
				Destination: &cmd.parallel,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cmd.http.Logger = slog.Default()
			return cmd.run(ctx, c.Args().Slice())
		},
	}
}

func (cmd *checkCmd) run(ctx context.Context, sources []string) error {
	if len(sources) == 0 {
		return errors.New("no pages given")
	}

	var (
		mu       sync.Mutex
		findings []markup.Finding
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmd.parallel, 1))
	for _, src := range sources {
		g.Go(func() error {
			doc, err := cmd.load(ctx, src)
			if err != nil {
				return fmt.Errorf("load %s: %w", src, err)
			}
			found := markup.Check(src, doc, cmd.maxDepth)
			slog.DebugContext(ctx, "checked page", "source", src, "findings", len(found))
			mu.Lock()
			findings = append(findings, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Pages finish in any order; keep each page's findings in document order.
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Source < findings[j].Source
	})

	if err := markup.WriteText(cmd.out, findings); err != nil {
		return fmt.Errorf("write findings: %w", err)
	}
	if cmd.xlsx != "" {
		if err := cmd.writeXLSX(findings); err != nil {
			return err
		}
	}
	if n := len(markup.Errors(findings)); n > 0 {
		return fmt.Errorf("%w: %d error(s) in %d page(s)", errFindings, n, len(sources))
	}
	return nil
}

func (cmd *checkCmd) load(ctx context.Context, src string) (*htmldom.Document, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		return htmldom.Parse(f)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := cmd.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return htmldom.Parse(resp.Body)
}

func (cmd *checkCmd) writeXLSX(findings []markup.Finding) error {
	f, err := os.Create(cmd.xlsx)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := markup.WriteXLSX(f, findings); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
