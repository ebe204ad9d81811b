package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/enetx/fsmkit/examples/lightswitch"
	"github.com/enetx/fsmkit/examples/turnstile"
	"github.com/enetx/fsmkit/fsm"
	"github.com/enetx/fsmkit/internal/config"
	"github.com/enetx/fsmkit/internal/logger"
	"github.com/enetx/fsmkit/tablefile"
	"github.com/enetx/g"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	dot := flag.Bool("dot", false, "Print the machine as Graphviz DOT after the run")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg.Demo.DOT = cfg.Demo.DOT || *dot

	log.Info("Running scenario", zap.String("scenario", cfg.Demo.Scenario), zap.Strings("inputs", cfg.Demo.Inputs))

	switch cfg.Demo.Scenario {
	case config.ScenarioTurnstile:
		err = runTurnstile(cfg.Demo, log)
	case config.ScenarioLightSwitch:
		err = runLightSwitch(cfg.Demo, log)
	case config.ScenarioTable:
		err = runTable(cfg.Demo, log)
	}

	if err != nil {
		log.Error("Scenario failed", zap.Error(err))
		os.Exit(1)
	}
}

func runTurnstile(demo config.DemoConfig, log *zap.Logger) error {
	ts, err := turnstile.New(os.Stdout, fsm.WithLogger[turnstile.State, turnstile.Input](log))
	if err != nil {
		return err
	}

	inputs := demo.Inputs
	if len(inputs) == 0 {
		inputs = []string{"push", "coin", "coin", "push", "push"}
	}

	for _, in := range inputs {
		switch in {
		case "coin":
			err = ts.InsertCoin()
		case "push":
			err = ts.Push()
		default:
			err = fmt.Errorf("unknown turnstile input %q", in)
		}

		if err != nil {
			return err
		}
	}

	if demo.DOT {
		g.Println("{}", ts.Machine().ToDOT())
	}

	return nil
}

func runLightSwitch(demo config.DemoConfig, log *zap.Logger) error {
	sw := lightswitch.New(os.Stdout, log)
	sw.Subscribe(lightswitch.NewLightbulb(os.Stdout))
	sw.Subscribe(lightswitch.NewRadio(os.Stdout))

	inputs := demo.Inputs
	if len(inputs) == 0 {
		inputs = []string{"on", "off"}
	}

	for _, in := range inputs {
		var err error

		// "on" and "off" notify plainly, "on:7" and "off:2" pass a level.
		name, level, hasLevel := strings.Cut(in, ":")

		switch {
		case name == "on" && !hasLevel:
			err = sw.TurnOn()
		case name == "off" && !hasLevel:
			err = sw.TurnOff()
		case name == "on" || name == "off":
			var n int
			if n, err = strconv.Atoi(level); err != nil {
				break
			}

			if name == "on" {
				err = sw.TurnOnAt(n)
			} else {
				err = sw.TurnOffAt(n)
			}
		default:
			err = fmt.Errorf("unknown light switch input %q", in)
		}

		if err != nil {
			return err
		}
	}

	if demo.DOT {
		g.Println("{}", sw.Machine().ToDOT())
	}

	return nil
}

func runTable(demo config.DemoConfig, log *zap.Logger) error {
	def, err := tablefile.LoadFile(demo.TableFile)
	if err != nil {
		return err
	}

	opts := []fsm.Option[string, string]{fsm.WithLogger[string, string](log)}
	if demo.Policy != "" {
		policy, _ := fsm.ParsePolicy(demo.Policy)
		opts = append(opts, fsm.WithPolicy[string, string](policy))
	}

	m := def.Build(opts...)
	m.OnTransition(func(from, to, input string) error {
		g.Println("{} -({})-> {}", from, input, to)
		return nil
	})

	for _, in := range demo.Inputs {
		if err := m.Input(in); err != nil {
			return err
		}
	}

	if demo.DOT {
		g.Println("{}", m.ToDOT())
	}

	return nil
}
