package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/gjnave/heartlib/pkg/cmd/doctor"
	"github.com/gjnave/heartlib/pkg/cmd/generate"
	"github.com/gjnave/heartlib/pkg/cmd/history"
	"github.com/gjnave/heartlib/pkg/cmd/preset"
	"github.com/gjnave/heartlib/pkg/cmd/web"
	"github.com/peterbourgon/ff/ffyaml"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func New(version, commit, date string) *ffcli.Command {
	fs := flag.NewFlagSet("heartlib", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "heartlib [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(version, commit, date),
			newGenerateCommand(),
			newWebCommand(),
			newDoctorCommand(),
			newPresetCommand(),
			newHistoryCommand(),
		},
	}
}

func newVersionCommand(version, commit, date string) *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "heartlib version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func newGenerateCommand() *ffcli.Command {
	cmd := "generate"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &generate.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.Root, "root", ".", "installation root folder")
	fs.StringVar(&cfg.Python, "python", "python", "python interpreter to use")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.FSType, "fs-type", "", "fs type (local, s3)")
	fs.StringVar(&cfg.FSConn, "fs-conn", "", "path for local, key:secret@bucket.region for s3")

	fs.StringVar(&cfg.ModelPath, "model-path", "", "model folder, relative paths resolve against the root")
	fs.StringVar(&cfg.Version, "version", "", "model version to use")
	fs.StringVar(&cfg.Lyrics, "lyrics", "", "lyrics text to use")
	fs.StringVar(&cfg.Tags, "tags", "", "style tags to use")
	fs.StringVar(&cfg.Genre, "genre", "", "genre of the preset")
	fs.StringVar(&cfg.Preset, "preset", "", "preset name, overrides the tags")
	fs.IntVar(&cfg.MaxAudioLength, "max-audio-length", 0, "maximum audio length in seconds")
	fs.IntVar(&cfg.TopK, "topk", 0, "topk sampling value")
	fs.Float64Var(&cfg.Temperature, "temperature", 0, "sampling temperature")
	fs.Float64Var(&cfg.CFGScale, "cfg-scale", 0, "classifier free guidance scale")
	fs.StringVar(&cfg.Output, "output", "", "output folder")
	fs.BoolVar(&cfg.NoOpen, "no-open", false, "don't open the output when done")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("heartlib %s [flags] <key> <value data...>", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("HEARTLIB"),
		},
		ShortHelp: fmt.Sprintf("heartlib %s action", cmd),
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return generate.Run(ctx, cfg)
		},
	}
}

func newWebCommand() *ffcli.Command {
	cmd := "web"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &web.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.Root, "root", ".", "installation root folder")
	fs.StringVar(&cfg.Python, "python", "python", "python interpreter to use")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.FSType, "fs-type", "", "fs type (local, s3)")
	fs.StringVar(&cfg.FSConn, "fs-conn", "", "path for local, key:secret@bucket.region for s3")

	fs.StringVar(&cfg.Addr, "addr", ":1337", "address to listen on")
	fsMapVar(fs, &cfg.Credentials, "creds", nil, "credentials to use (semicolon separated) Example: user1:pass1;user2:pass2")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("heartlib %s [flags] <key> <value data...>", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("HEARTLIB"),
		},
		ShortHelp: fmt.Sprintf("heartlib %s action", cmd),
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return web.Serve(ctx, cfg)
		},
	}
}

func newDoctorCommand() *ffcli.Command {
	cmd := "doctor"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &doctor.Config{}

	fs.StringVar(&cfg.Root, "root", ".", "installation root folder")
	fs.StringVar(&cfg.ModelPath, "model-path", "", "model folder, defaults to the stored settings")
	fs.BoolVar(&cfg.Fix, "fix", false, "create missing folders and settings")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("heartlib %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("HEARTLIB"),
		},
		ShortHelp: fmt.Sprintf("heartlib %s action", cmd),
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return doctor.Run(ctx, cfg)
		},
	}
}

func newPresetCommand() *ffcli.Command {
	cmd := "preset"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &preset.Config{}

	fs.StringVar(&cfg.Root, "root", ".", "installation root folder")
	fs.StringVar(&cfg.Genre, "genre", "", "list the presets of a genre")
	fs.StringVar(&cfg.Input, "input", "", "csv file to import with fields (genre,name,tags)")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("heartlib %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("HEARTLIB"),
		},
		ShortHelp: fmt.Sprintf("heartlib %s action", cmd),
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return preset.Run(ctx, cfg)
		},
	}
}

func newHistoryCommand() *ffcli.Command {
	cmd := "history"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &history.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.IntVar(&cfg.Page, "page", 1, "page to list")
	fs.IntVar(&cfg.Size, "size", 100, "page size")
	fs.StringVar(&cfg.Status, "status", "", "filter by status (done, failed, canceled)")
	fs.StringVar(&cfg.Output, "output", "", "write the listing to a csv file")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("heartlib %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("HEARTLIB"),
		},
		ShortHelp: fmt.Sprintf("heartlib %s action", cmd),
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return history.Run(ctx, cfg)
		},
	}
}

type mapValue struct {
	v *map[string]string
}

func (m *mapValue) String() string {
	if m.v == nil {
		return ""
	}
	return fmt.Sprintf("%v", map[string]string(*m.v))
}

func (m *mapValue) Set(value string) error {
	if m.v == nil {
		return errors.New("nil map reference")
	}
	pairs := strings.Split(value, ";")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid map entry: %s", pair)
		}
		(*m.v)[parts[0]] = parts[1]
	}
	return nil
}

func fsMapVar(fs *flag.FlagSet, p *map[string]string, name string, value map[string]string, usage string) {
	if value == nil {
		value = make(map[string]string)
	}
	*p = value
	fs.Var(&mapValue{p}, name, usage)
}
