package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alchemorsel/mealplanner/internal/application/catalog"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/google/uuid"
)

// Command is one parsed subcommand
type Command interface {
	ConfigPath() string
	JSON() bool
	Run(ctx context.Context, cli *CLI) error
}

type common struct {
	config string
	asJSON bool
}

func (c common) ConfigPath() string { return c.config }

func (c common) JSON() bool { return c.asJSON }

type generateCommand struct {
	common
	userID uuid.UUID
	days   int
}

type latestCommand struct {
	common
	userID uuid.UUID
}

type suggestCommand struct {
	common
	cmd inbound.SuggestReplacementsCommand
}

type replaceCommand struct {
	common
	cmd inbound.ReplaceMealItemCommand
}

type prefsCommand struct {
	common
	prefs mealplan.UserPreferences
}

type loadCommand struct {
	common
	opts catalog.LoadOptions
}

func parseCommand(name string, args []string) (Command, error) {
	fs, configFile, asJSON := newFlagSet(name)
	user := fs.String("user", "", "User ID")

	switch name {
	case "generate":
		days := fs.Int("days", 0, "Days to plan (default from configuration)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		userID, err := parseUUID("user", *user)
		if err != nil {
			return nil, err
		}
		return &generateCommand{common{*configFile, *asJSON}, userID, *days}, nil

	case "latest":
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		userID, err := parseUUID("user", *user)
		if err != nil {
			return nil, err
		}
		return &latestCommand{common{*configFile, *asJSON}, userID}, nil

	case "suggest":
		item := fs.String("item", "", "Meal item ID to replace")
		slot := fs.String("slot", "", "Meal slot: breakfast, lunch or dinner")
		limit := fs.Int("limit", 0, "Number of suggestions")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		userID, err := parseUUID("user", *user)
		if err != nil {
			return nil, err
		}
		cmd := inbound.SuggestReplacementsCommand{UserID: userID, Limit: *limit}
		if *item != "" {
			itemID, err := parseUUID("item", *item)
			if err != nil {
				return nil, err
			}
			cmd.MealItemID = &itemID
		}
		if *slot != "" {
			s, err := mealplan.ParseMealSlotName(*slot)
			if err != nil {
				return nil, err
			}
			cmd.Slot = &s
		}
		return &suggestCommand{common{*configFile, *asJSON}, cmd}, nil

	case "replace":
		item := fs.String("item", "", "Meal item ID")
		recipe := fs.String("recipe", "", "Replacement recipe ID")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		cmd := inbound.ReplaceMealItemCommand{}
		var err error
		if cmd.UserID, err = parseUUID("user", *user); err != nil {
			return nil, err
		}
		if cmd.MealItemID, err = parseUUID("item", *item); err != nil {
			return nil, err
		}
		if cmd.RecipeID, err = parseUUID("recipe", *recipe); err != nil {
			return nil, err
		}
		return &replaceCommand{common{*configFile, *asJSON}, cmd}, nil

	case "prefs":
		diet := fs.String("diet", "", "Diet name, e.g. Vegetarian (empty for balanced)")
		intolerances := fs.String("intolerances", "", "Comma-separated intolerances")
		cuisines := fs.String("cuisines", "", "Comma-separated cuisines")
		calories := fs.Float64("calories", mealplan.DefaultCaloriesGoal, "Daily calorie goal")
		maxDays := fs.Int("max-days", 0, "Longest plan the user accepts (0 for default)")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		userID, err := parseUUID("user", *user)
		if err != nil {
			return nil, err
		}
		prefs := mealplan.UserPreferences{
			UserID:       userID,
			CaloriesGoal: *calories,
			MaxPlanDays:  *maxDays,
		}
		if *diet != "" {
			prefs.Diet = &mealplan.DietType{Name: *diet}
		}
		for _, name := range splitList(*intolerances) {
			prefs.Intolerances = append(prefs.Intolerances, mealplan.Intolerance{Name: name})
		}
		for _, name := range splitList(*cuisines) {
			prefs.Cuisines = append(prefs.Cuisines, mealplan.Cuisine{Name: name})
		}
		return &prefsCommand{common{*configFile, *asJSON}, prefs}, nil

	case "load":
		offset := fs.Int("offset", 0, "Starting offset, to resume a previous load")
		maxRecipes := fs.Int("max", 0, "Maximum number of recipes to import (0 for all)")
		sort := fs.String("sort", "popularity", "External sort order")
		batch := fs.Int("batch", catalog.DefaultBatchSize, "Recipes per external call")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return &loadCommand{common{*configFile, *asJSON}, catalog.LoadOptions{
			Offset:    *offset,
			Max:       *maxRecipes,
			Sort:      *sort,
			BatchSize: *batch,
		}}, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func parseUUID(flagName, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("-%s is required", flagName)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("-%s: %w", flagName, err)
	}
	return id, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *generateCommand) Run(ctx context.Context, cli *CLI) error {
	plan, err := cli.service.GenerateMealPlan(ctx, inbound.GenerateMealPlanCommand{
		UserID: c.userID,
		Days:   c.days,
	})
	if err != nil {
		return err
	}
	return cli.printPlan(plan, c.asJSON)
}

func (c *latestCommand) Run(ctx context.Context, cli *CLI) error {
	plan, err := cli.service.GetLatestMealPlan(ctx, c.userID)
	if err != nil {
		return err
	}
	return cli.printPlan(plan, c.asJSON)
}

func (c *suggestCommand) Run(ctx context.Context, cli *CLI) error {
	recipes, err := cli.service.SuggestReplacements(ctx, c.cmd)
	if err != nil {
		return err
	}
	return cli.printRecipes(recipes, c.asJSON)
}

func (c *replaceCommand) Run(ctx context.Context, cli *CLI) error {
	item, err := cli.service.ReplaceMealItem(ctx, c.cmd)
	if err != nil {
		return err
	}
	return cli.printItem(item, c.asJSON)
}

func (c *prefsCommand) Run(ctx context.Context, cli *CLI) error {
	if err := cli.preferences.Save(ctx, &c.prefs); err != nil {
		return err
	}
	saved, err := cli.preferences.FindByUserID(ctx, c.prefs.UserID)
	if err != nil {
		return err
	}
	return cli.printPreferences(saved, c.asJSON)
}

func (c *loadCommand) Run(ctx context.Context, cli *CLI) error {
	stats, err := cli.loader.Load(ctx, c.opts)
	if printErr := cli.printLoadStats(stats, c.asJSON); printErr != nil && err == nil {
		err = printErr
	}
	return err
}
