package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/changelog-mcp/internal/mcp"
	"github.com/dtnitsch/changelog-mcp/pkg/help"
)

// shutdownGrace bounds the wait for the read loop after the input is closed.
// Closing a blocking file does not always interrupt a pending read.
const shutdownGrace = 2 * time.Second

// ServeAction runs the MCP server on stdio until EOF, a signal or the
// cancellation of c.Context. On shutdown the input is closed when it is an
// io.Closer so the read loop unblocks and exits before ServeAction returns;
// otherwise the loop stays parked in its read until the process exits.
func ServeAction(c *cli.Context) error {
	rt, err := newRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt.server.SetStdin(c.App.Reader)
	rt.server.SetStdout(c.App.Writer)

	errc := make(chan error, 1)
	go func() { errc <- rt.server.Start(ctx) }()

	select {
	case err := <-errc:
		if ctx.Err() != nil {
			closeInput(c.App.Reader)
		}
		return err
	case <-ctx.Done():
		rt.logger.Info("shutting down", "reason", context.Cause(ctx).Error())
		if closeInput(c.App.Reader) {
			select {
			case <-errc:
			case <-time.After(shutdownGrace):
				rt.logger.Warn("input did not unblock after close")
			}
		}
		return nil
	}
}

// closeInput closes r when it can be closed and reports whether it did.
func closeInput(r io.Reader) bool {
	closer, ok := r.(io.Closer)
	if !ok {
		return false
	}
	_ = closer.Close()
	return true
}

// toolAction returns an action that runs one tool with arguments built from
// the command's flags and prints the payload.
func toolAction(tool string, buildArgs func(c *cli.Context) (map[string]interface{}, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		args := map[string]interface{}{}
		if buildArgs != nil {
			var err error
			if args, err = buildArgs(c); err != nil {
				return err
			}
		}

		rt, err := newRuntime(c)
		if err != nil {
			return err
		}
		defer rt.Close()

		payload, err := rt.server.CallTool(c.Context, tool, args)
		if err != nil {
			return reportToolError(c, err)
		}
		return render(c.App.Writer, c.String("format"), payload)
	}
}

// reportToolError prints the structured error to stderr and exits non-zero.
func reportToolError(c *cli.Context, err error) error {
	data, mErr := yaml.Marshal(mcp.ErrorInfoFor(err))
	if mErr != nil {
		return err
	}
	fmt.Fprint(c.App.ErrWriter, string(data))
	return cli.Exit("", 1)
}

func entriesArgs(c *cli.Context) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	setString(args, "startDate", c.String("start-date"))
	setString(args, "endDate", c.String("end-date"))
	setString(args, "searchTerm", c.String("search"))
	setList(args, "categories", c.StringSlice("category"))
	setList(args, "types", c.StringSlice("type"))
	if c.IsSet("limit") {
		args["limit"] = float64(c.Int("limit"))
	}
	return args, nil
}

func recentArgs(c *cli.Context) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	setString(args, "category", c.String("category"))
	setString(args, "type", c.String("type"))
	if c.IsSet("count") {
		args["count"] = float64(c.Int("count"))
	}
	return args, nil
}

func searchArgs(c *cli.Context) (map[string]interface{}, error) {
	q := c.Args().First()
	if q == "" {
		return nil, fmt.Errorf("usage: %s search <query>", c.App.Name)
	}
	args := map[string]interface{}{"query": q}
	if c.IsSet("limit") {
		args["limit"] = float64(c.Int("limit"))
	}
	return args, nil
}

func statsArgs(c *cli.Context) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	setString(args, "startDate", c.String("start-date"))
	setString(args, "endDate", c.String("end-date"))
	if c.IsSet("top") {
		args["top"] = float64(c.Int("top"))
	}
	return args, nil
}

func detailsArgs(c *cli.Context) (map[string]interface{}, error) {
	id := c.Args().First()
	if id == "" {
		return nil, fmt.Errorf("usage: %s details <entry-id>", c.App.Name)
	}
	return map[string]interface{}{"id": id}, nil
}

// QuickstartAction prints the quick reference.
func QuickstartAction(c *cli.Context) error {
	_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
	return err
}

func setString(args map[string]interface{}, key, value string) {
	if value != "" {
		args[key] = value
	}
}

// setList stores values the way JSON decoding would.
func setList(args map[string]interface{}, key string, values []string) {
	if len(values) == 0 {
		return
	}
	list := make([]interface{}, len(values))
	for i, v := range values {
		list[i] = v
	}
	args[key] = list
}
