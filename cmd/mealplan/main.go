// Package main provides the meal planner command-line tool
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alchemorsel/mealplanner/internal/application/catalog"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/container"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"go.uber.org/fx"
)

const usage = `Usage: mealplan <command> [flags]

Commands:
  generate   generate and store a new plan for a user
  latest     print the most recent plan of a user
  suggest    suggest replacement recipes for a meal item or slot
  replace    assign another recipe to a stored meal item
  prefs      create or update a user's dietary preferences
  load       bulk-import recipes from the external catalog

Run 'mealplan <command> -h' for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command, err := parseCommand(os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, command))
}

// deps are the services a command may use
type deps struct {
	fx.In

	Service     inbound.MealPlanService
	Preferences outbound.PreferencesRepository
	Loader      *catalog.Loader
}

func run(ctx context.Context, command Command) int {
	var d deps
	app := fx.New(
		fx.Supply(container.ConfigPath(command.ConfigPath())),
		container.Module,
		fx.Populate(&d),
	)

	startCtx, cancelStart := context.WithTimeout(ctx, 30*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	cli := &CLI{
		service:     d.Service,
		preferences: d.Preferences,
		loader:      d.Loader,
		out:         os.Stdout,
		errOut:      os.Stderr,
	}
	runErr := command.Run(ctx, cli)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop cleanly: %v\n", err)
	}

	if runErr != nil {
		cli.printError(runErr, command.JSON())
		return exitCode(runErr)
	}
	return 0
}

// exitStatuses maps error codes to process exit statuses
var exitStatuses = []struct {
	code   errors.ErrorCode
	status int
}{
	{errors.CodeValidationFailed, 2},
	{errors.CodeInsufficientVariety, 3},
	{errors.CodePreferencesTooStrict, 3},
	{errors.CodeMealPlanNotFound, 4},
	{errors.CodeMealItemNotFound, 4},
	{errors.CodePreferencesNotFound, 4},
	{errors.CodeRecipeNotFound, 4},
	{errors.CodeExternalServiceError, 5},
}

// exitCode returns the exit status for a failed command
func exitCode(err error) int {
	for _, e := range exitStatuses {
		if errors.Is(err, e.code) {
			return e.status
		}
	}
	return 1
}

// newFlagSet creates a subcommand flag set with the shared flags
func newFlagSet(name string) (*flag.FlagSet, *string, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file (default: ./config.yaml)")
	asJSON := fs.Bool("json", false, "Print JSON instead of text")
	return fs, configFile, asJSON
}
