package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-yals/model"
	"github.com/sheikhrachel/go-yals/rules"
	"github.com/sheikhrachel/go-yals/storage"
	"github.com/sheikhrachel/go-yals/utils"
)

const periodicRefresh = 200

// initializeGame sets up the initial game state
func initializeGame(config utils.Config) (
	*model.World,
	*model.TerminalRenderer,
	*utils.Stats,
	error,
) {
	world, err := buildWorld(config)
	if err != nil {
		return nil, nil, nil, err
	}

	renderer := model.NewTerminalRenderer(config.Styled)
	stats := utils.NewStats()

	return world, renderer, stats, nil
}

// buildWorld loads the configured world file or creates a filled world
func buildWorld(config utils.Config) (*model.World, error) {
	rule, err := rules.Named(config.Rule)
	if err != nil {
		return nil, errors.Wrap(err, "[buildWorld] bad rule")
	}

	if config.WorldFile != "" {
		world, err := storage.Load(config.WorldFile)
		if err != nil {
			return nil, err
		}
		world.SetRule(rule)
		return world, nil
	}

	fill, err := model.ParseFillKind(config.Fill)
	if err != nil {
		return nil, errors.Wrap(err, "[buildWorld] bad fill")
	}
	world, err := model.NewWorld(config.Width, config.Height, rule)
	if err != nil {
		return nil, err
	}
	if fill == model.FillRandom {
		err = world.Randomize(config.RandomDensity, config.Seed)
	} else {
		err = world.Fill(fill, config.Seed)
	}
	if err != nil {
		return nil, err
	}
	return world, nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, world *model.World) {
	fmt.Printf("Rule: %s | Fill: %s | Half steps: %v\n", config.Rule, config.Fill, config.HalfSteps)
	fmt.Printf("World: %dx%d | Initial living cells: %d\n",
		world.Width(), world.Height(), world.Population())
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
	time.Sleep(2 * time.Second)
}

// updateGameState updates the game state and returns status information.
// Stagnation is only judged on committed generations.
func updateGameState(
	world *model.World,
	lastFrameTime time.Time,
	stats *utils.Stats,
) (int, string, bool) {
	livingCells := world.Population()

	// Update performance stats
	stats.Update(int(world.Generation()), livingCells, world.CellCount(), time.Since(lastFrameTime))

	isStagnant := false
	if world.Phase() == model.PhaseCalc {
		isStagnant = world.IsStagnant()
		world.UpdateHistory()
	}

	status := "Active"
	if isStagnant {
		status = fmt.Sprintf("Stagnant (%d)", world.Generation())
	}
	if livingCells == 0 {
		status = "Extinct"
	}

	return livingCells, status, isStagnant
}

// displayGameStatus shows the current game status
func displayGameStatus(
	world *model.World,
	status string,
	stats *utils.Stats,
	restarts int,
) {
	fmt.Printf("Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		world.Generation(), stats.Population, stats.Density, status)
	fmt.Printf("Performance: %.1f frames/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, stats.Runtime().Seconds())

	if restarts > 0 {
		fmt.Printf("Restarts: %d\n", restarts)
	}
	fmt.Println()
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(
	livingCells, stagnantCount, generation int,
	config utils.Config,
) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if config.StagnationThreshold > 0 && stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	if generation > 0 && generation%periodicRefresh == 0 {
		return true, "periodic refresh"
	}
	return false, ""
}

// restartGame refills the world at random with a seed derived from the restart
// count. Fixed patterns would restart into the same dead end.
func restartGame(world *model.World, config utils.Config, restarts int) error {
	return world.Randomize(config.RandomDensity, config.Seed+int64(restarts))
}

// injectRandomLife flips random cells to break stagnation
func injectRandomLife(world *model.World, rng *rand.Rand, count int) {
	for i := 0; i < count; i++ {
		x, y := rng.IntN(world.Width()), rng.IntN(world.Height())
		if !world.Alive(x, y) {
			_ = world.InvertCell(x, y)
		}
	}
	world.ResetHistory()
}

// advance moves the world forward by one frame
func advance(world *model.World, config utils.Config) {
	if config.HalfSteps {
		world.HalfStep()
		return
	}
	world.Step()
}

// saveWorld writes the world to the configured save file, if any
func saveWorld(world *model.World, config utils.Config, logger *zap.Logger) error {
	if config.SaveFile == "" {
		return nil
	}
	format, err := storage.ParseFormat(config.SaveFormat)
	if err != nil {
		return err
	}
	if err = storage.Save(config.SaveFile, world, format); err != nil {
		return err
	}
	logger.Info("world saved", zap.String("path", config.SaveFile), zap.Uint32("generation", world.Generation()))
	return nil
}
