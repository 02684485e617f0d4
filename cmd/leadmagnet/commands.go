package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/autofill"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/gate"
	"github.com/lvillar/leadmagnet/internal/config"
	"github.com/lvillar/leadmagnet/internal/logger"
	"github.com/lvillar/leadmagnet/internal/server"
	"github.com/lvillar/leadmagnet/render"
	"github.com/lvillar/leadmagnet/whop"
)

type rootFlags struct {
	config string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "leadmagnet",
		Short:         "Generate lead magnets: checklists, quizzes, scorecards, guides and value calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "leadmagnet.yaml", "configuration file")

	root.AddCommand(
		newServeCmd(&flags),
		newRenderCmd(&flags),
		newValidateCmd(),
		newAutofillCmd(&flags),
		newTypesCmd(),
	)
	return root
}

// formFlags are shared by the commands that read a form file.
type formFlags struct {
	typ  string
	file string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "magnet type (see 'leadmagnet types')")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "form file, YAML or JSON")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("file")
}

func (f *formFlags) load() (form.State, error) {
	t, err := form.ParseType(f.typ)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("reading form: %w", err)
	}
	return form.Unmarshal(t, data)
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadIfExists(flags.config)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log.Mode)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Log.Mode == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg, err := render.New(cfg.BrandOptions()...)
			if err != nil {
				return err
			}

			var filler *autofill.Client
			if cfg.Gemini.APIKey != "" {
				gen, err := autofill.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
				if err != nil {
					return err
				}
				filler = autofill.New(gen,
					autofill.WithRateLimit(cfg.Gemini.PerMinute, cfg.Gemini.Burst),
					autofill.WithLogger(log.With("component", "autofill")))
			}

			var usage gate.Consumer = gate.NewMemory(cfg.Usage.FreeUses)
			if cfg.Usage.RedisAddr != "" {
				rdb, err := gate.Dial(ctx, cfg.Usage.RedisAddr)
				if err != nil {
					return err
				}
				defer rdb.Close()
				usage = gate.NewRedis(rdb, cfg.Usage.FreeUses, gate.WithTTL(cfg.Usage.TTL))
			}

			verifier := whop.NewClient(cfg.Whop.APIKey,
				whop.WithBaseURL(cfg.Whop.BaseURL),
				whop.WithPlanID(cfg.Whop.PlanID))

			log.Info("starting",
				"port", cfg.Server.Port,
				"autofill_configured", filler != nil,
				"whop_configured", verifier.Configured(),
				"redis", cfg.Usage.RedisAddr != "",
				"free_uses", cfg.Usage.FreeUses)

			srv := server.New(server.Deps{
				Registry:     reg,
				Autofill:     filler,
				Usage:        usage,
				Verifier:     verifier,
				Log:          log,
				AllowOrigins: cfg.Server.AllowOrigins,
			})
			return srv.Run(ctx, cfg.Addr())
		},
	}
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var (
		ff     formFlags
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form file to a PDF or HTML artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ff.load()
			if err != nil {
				return err
			}
			var f render.Format
			if format != "" {
				if f, err = render.ParseFormat(format); err != nil {
					return err
				}
			}
			cfg, err := config.LoadIfExists(flags.config)
			if err != nil {
				return err
			}
			reg, err := render.New(cfg.BrandOptions()...)
			if err != nil {
				return err
			}
			a, err := reg.Render(st, f)
			if err != nil {
				return describe(err)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, filepath.Base(a.Filename))
			if err := os.WriteFile(path, a.Data, 0o644); err != nil {
				return fmt.Errorf("writing artifact: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", path, len(a.Data))
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "pdf or html; defaults to the type's default")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a form file is complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ff.load()
			if err != nil {
				return err
			}
			if err := form.Validate(st); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s form is complete\n", st.Type().Name())
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newAutofillCmd(flags *rootFlags) *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Draft a form's content with Gemini and print the result as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ff.load()
			if err != nil {
				return err
			}
			cfg, err := config.LoadIfExists(flags.config)
			if err != nil {
				return err
			}
			if cfg.Gemini.APIKey == "" {
				return autofill.ErrUnavailable
			}
			gen, err := autofill.NewGemini(cmd.Context(), cfg.Gemini.APIKey, cfg.Gemini.Model)
			if err != nil {
				return err
			}
			out, err := autofill.New(gen).Autofill(cmd.Context(), st)
			if err != nil {
				return describe(err)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	ff.register(cmd)
	return cmd
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List magnet types and niches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := render.New()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, t := range form.Types {
				fmt.Fprintf(w, "%-17s %-20s %v\n", t, t.Name(), reg.Formats(t))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Niches:")
			for _, n := range form.Niches {
				fmt.Fprintf(w, "  %s\n", n)
			}
			return nil
		},
	}
}

// describe turns a failure into the one-line notice shown to the user.
func describe(err error) error {
	var ve *leadmagnet.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var pe *leadmagnet.AutofillParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%v; the form was left unchanged", pe)
	}
	return err
}
