package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-yals/model"
	"github.com/sheikhrachel/go-yals/storage"
	"github.com/sheikhrachel/go-yals/utils"
)

func main() {
	var (
		configFile  = flag.String("config", "config.json", "Path to JSON config")
		worldFile   = flag.String("world", "", "World file to load (binary, base64, zstd or text)")
		saveFile    = flag.String("save", "", "Write the final world to this file")
		saveFormat  = flag.String("format", "", "Save format: binary, base64, zstd, text")
		fill        = flag.String("fill", "", "Initial fill pattern")
		rule        = flag.String("rule", "", "Rule name or B/S notation")
		generations = flag.Int("generations", -1, "Stop after this many generations (0 = unlimited)")
		quiet       = flag.Bool("quiet", false, "Do not print the world")
	)
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Using default configuration (%s not found)\n", *configFile)
		config = utils.DefaultConfig()
	}

	if *worldFile != "" {
		config.WorldFile = *worldFile
	}
	if *saveFile != "" {
		config.SaveFile = *saveFile
	}
	if *saveFormat != "" {
		config.SaveFormat = *saveFormat
	}
	if *fill != "" {
		config.Fill = *fill
	}
	if *rule != "" {
		config.Rule = *rule
	}
	if *generations >= 0 {
		config.MaxGenerations = *generations
	}
	if *quiet {
		config.Display = false
	}

	logger, err := utils.NewLogger(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	storage.SetLogger(logger.Named("storage"))

	if _, err = run(config, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// runSummary describes a finished simulation
type runSummary struct {
	Generations int // committed generations across restarts
	Restarts    int
}

func run(config utils.Config, logger *zap.Logger) (runSummary, error) {
	world, renderer, stats, err := initializeGame(config)
	if err != nil {
		return runSummary{}, err
	}
	defer world.Destroy()

	if config.Display {
		displayGameInfo(config, world)
	}
	logger.Info("simulation started",
		zap.Int("width", world.Width()),
		zap.Int("height", world.Height()),
		zap.Int("population", world.Population()),
		zap.String("rule", config.Rule),
	)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var (
		stagnantCount  = 0
		restarts       = 0
		baseGeneration = 0 // generations run before the last restart
		lastFrameTime  = time.Now()
		rng            = rand.New(rand.NewPCG(uint64(config.Seed), 1))
	)

loop:
	for {
		select {
		case <-sigChan:
			fmt.Println("\n🛑 Shutting down gracefully...")
			break loop
		default:
			// Continue with game loop
		}

		frameStart := time.Now()

		// only committed generations are judged; SHIFT frames leave the count alone
		judged := world.Phase() == model.PhaseCalc
		livingCells, status, isStagnant := updateGameState(world, lastFrameTime, stats)
		lastFrameTime = frameStart

		if judged {
			if isStagnant {
				stagnantCount++
			} else {
				stagnantCount = 0
			}
		}

		if config.Display {
			if err = renderer.Clear(); err != nil {
				return runSummary{}, errors.Wrap(err, "[run] failed to clear screen")
			}
			displayGameStatus(world, status, stats, restarts)
			if err = renderer.Display(world); err != nil {
				return runSummary{}, errors.Wrap(err, "[run] failed to display world")
			}
		}

		generation := int(world.Generation())
		if config.MaxGenerations > 0 && baseGeneration+generation >= config.MaxGenerations {
			fmt.Printf("\n🏁 Reached maximum generations limit (%d)\n", config.MaxGenerations)
			break
		}

		shouldRestart, restartReason := checkRestartConditions(livingCells, stagnantCount, generation, config)
		if shouldRestart && config.AutoRestart && judged {
			logger.Info("restarting", zap.String("reason", restartReason), zap.Int("generation", generation))
			restarts++
			baseGeneration += generation
			if err = restartGame(world, config, restarts); err != nil {
				return runSummary{}, err
			}
			stagnantCount = 0
		} else if judged && config.InjectionCount > 0 && stagnantCount >= 2 && stagnantCount < config.StagnationThreshold {
			// Inject some life to try to break the stagnation
			injectRandomLife(world, rng, config.InjectionCount)
		}

		advance(world, config)

		time.Sleep(config.FrameRate)
	}

	logger.Info("simulation finished",
		zap.Uint32("generation", world.Generation()),
		zap.Int("total_generations", baseGeneration+int(world.Generation())),
		zap.Int("restarts", restarts),
		zap.Float64("avg_population", stats.AveragePopulation),
		zap.Duration("runtime", stats.Runtime()),
	)
	summary := runSummary{
		Generations: baseGeneration + int(world.Generation()),
		Restarts:    restarts,
	}
	return summary, saveWorld(world, config, logger)
}
