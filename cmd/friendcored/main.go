// Command friendcored is the FriendCore entrypoint: it loads configuration
// via spf13/viper, exposes matching flags via spf13/cobra, builds a
// core.Instance, and runs it until shutdown. The CLI wrapper package the
// teacher ships (nabbar-golib/cobra) pulls in an interactive bubbletea UI
// with no analogue here, so this wires spf13/cobra directly — the same
// underlying dependency, without the UI layer (see DESIGN.md).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fcconfig "github.com/friendup/friendcore/config"
	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/core"
	"github.com/friendup/friendcore/httpproto"
	"github.com/friendup/friendcore/internal/flog"
)

func main() {
	root := newRootCommand()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "friendcored",
		Short: "FriendCore connection acceptance and dispatch daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to a config file (json/yaml/toml)")
	flags.Int("port", 8443, "TCP port to listen on")
	flags.String("listen", "", "bind address, overrides --port when set")
	flags.Bool("tls", true, "enable TLS on the listener")
	flags.String("tls-cert", "", "path to the TLS certificate file")
	flags.String("tls-key", "", "path to the TLS private key file")
	flags.Int("buffer-size", 4096, "fixed scratch buffer size for worker reads")
	flags.Int("max-workers", 256, "concurrent worker ceiling")
	flags.String("hostname", "", "hostname stored in the config (not used by the redirect path)")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("FRIENDCORE")
	v.AutomaticEnv()

	return cmd
}

func run(v *viper.Viper) error {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := fcconfig.Config{
		Port:        v.GetInt("port"),
		Listen:      v.GetString("listen"),
		TLSEnabled:  v.GetBool("tls"),
		TLSCertFile: v.GetString("tls-cert"),
		TLSKeyFile:  v.GetString("tls-key"),
		BufferSize:  v.GetInt("buffer-size"),
		MaxWorkers:  v.GetInt("max-workers"),
		Hostname:    v.GetString("hostname"),
	}

	inst, err := core.New(cfg, defaultHandler())
	if err != nil {
		return fmt.Errorf("starting FriendCore instance: %w", err)
	}

	flog.InfoLevel.Logf("FriendCore instance %s ready", inst.ID())
	inst.Run()

	return nil
}

// defaultHandler is a minimal reference HTTP handler satisfying the
// external ABI (spec §6) — real deployments inject their own
// httpproto.Handler in place of this.
func defaultHandler() httpproto.Handler {
	return httpproto.HandlerFunc(func(conn *connection.Connection, buffer []byte, length int) *httpproto.Response {
		return nil
	})
}
