package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/logging"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/pipeline"
	"github.com/danielpatrickdp/epistemic-gate/go-controller/internal/symbolic"
)

var chatFlags struct {
	sessionID   string
	mode        string
	metricsAddr string
	verbose     bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive consensus chat on stdin",
	Long: `Reads prompts from stdin and answers each through the consensus pipeline.
The symbolic mode and tone follow keywords in the conversation. Type 'quit' to exit.`,
	RunE: runChat,
}

func init() {
	f := chatCmd.Flags()
	f.StringVar(&chatFlags.sessionID, "session", "", "Session ID (default: new UUID)")
	f.StringVar(&chatFlags.mode, "mode", "", "Initial symbolic mode (default: adaptive)")
	f.StringVar(&chatFlags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	f.BoolVarP(&chatFlags.verbose, "verbose", "v", false, "Print integrity and divergence per turn")
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := logging.New("chat")

	if chatFlags.metricsAddr != "" {
		srv := &http.Server{Addr: chatFlags.metricsAddr, Handler: promhttp.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	sessionID := chatFlags.sessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	sym := symbolic.Normalize(symbolic.Context{Mode: chatFlags.mode})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Consensus controller ready.")
	fmt.Fprintf(out, "  Session: %s | Backends: %s\n", sessionID, strings.Join(a.cfg.Backends, ", "))
	fmt.Fprintln(out, "Type a prompt (or 'quit' to exit):")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "quit" || prompt == "exit" {
			break
		}

		sym = symbolic.Evolve(sym, prompt)
		res, err := a.pipeline.Process(cmd.Context(), pipeline.Request{
			InputText:       prompt,
			SymbolicContext: sym,
			SessionID:       sessionID,
		})
		if err != nil {
			fmt.Fprintf(out, "\n[error] %v\n\n", err)
			continue
		}
		printResult(out, res, chatFlags.verbose)
	}
	return scanner.Err()
}

func printResult(out io.Writer, res pipeline.Result, verbose bool) {
	fmt.Fprintf(out, "\n%s\n", res.Text())
	if verbose {
		m := res.DivergenceMetrics
		fmt.Fprintf(out, "  [%s/%s] integrity=%.3f (%s) backend=%s fallback=%v\n",
			res.Disposition, res.EpistemicReason, res.IntegrityScore, res.ConsensusStrength, res.ChosenBackend, res.FallbackUsed)
		fmt.Fprintf(out, "  divergence: length=%.3f sentiment=%.3f topic=%.3f tone=%.3f\n",
			m.LengthVariance, m.SentimentDivergence, m.TopicDivergence, m.ToneConsistency)
	}
	fmt.Fprintln(out)
}
