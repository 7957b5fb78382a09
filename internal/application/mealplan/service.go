package mealplan

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceConfig holds plan length and calorie defaults
type ServiceConfig struct {
	DefaultDays         int
	MaxDays             int
	DefaultCaloriesGoal float64
}

// Service implements the meal plan use cases
type Service struct {
	preferences outbound.PreferencesRepository
	plans       outbound.MealPlanRepository
	catalog     outbound.RecipeCatalog
	generator   *Generator
	suggester   *Suggester
	validate    *validator.Validate
	config      ServiceConfig
	logger      *zap.Logger
}

// NewService creates a new meal plan service
func NewService(
	preferences outbound.PreferencesRepository,
	plans outbound.MealPlanRepository,
	catalog outbound.RecipeCatalog,
	generator *Generator,
	suggester *Suggester,
	config ServiceConfig,
	logger *zap.Logger,
) inbound.MealPlanService {
	if config.DefaultDays < 1 {
		config.DefaultDays = mealplan.DefaultPlanDays
	}
	if config.MaxDays < 1 || config.MaxDays > mealplan.MaxPlanDays {
		config.MaxDays = mealplan.MaxPlanDays
	}
	if config.DefaultCaloriesGoal <= 0 {
		config.DefaultCaloriesGoal = mealplan.DefaultCaloriesGoal
	}
	return &Service{
		preferences: preferences,
		plans:       plans,
		catalog:     catalog,
		generator:   generator,
		suggester:   suggester,
		validate:    validator.New(),
		config:      config,
		logger:      logger.Named("meal-plan-service"),
	}
}

// GenerateMealPlan generates and stores a new plan for the user
func (s *Service) GenerateMealPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*inbound.MealPlanDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, invalidCommand(err)
	}

	prefs, err := s.loadPreferences(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	days := s.planDays(cmd.Days, prefs.MaxPlanDays)

	plan, status, err := s.generator.Generate(ctx, *prefs, days)
	if err != nil {
		switch {
		case stderrors.Is(err, mealplan.ErrInsufficientRecipeVariety):
			return nil, errors.NewInsufficientVarietyError(err)
		case stderrors.Is(err, mealplan.ErrPreferencesTooStrict):
			return nil, errors.NewPreferencesTooStrictError(err)
		default:
			return nil, errors.NewDatabaseError("source recipes", err)
		}
	}

	record, err := s.plans.Save(ctx, cmd.UserID, plan, status)
	if err != nil {
		return nil, errors.NewDatabaseError("save meal plan", err)
	}

	s.logger.Info("Meal plan stored",
		zap.String("meal_plan_id", record.ID.String()),
		zap.String("user_id", cmd.UserID.String()),
		zap.String("status", string(status)),
	)

	return planToDTO(record), nil
}

// GetLatestMealPlan returns the user's most recent plan
func (s *Service) GetLatestMealPlan(ctx context.Context, userID uuid.UUID) (*inbound.MealPlanDTO, error) {
	record, err := s.plans.FindLatestByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewMealPlanNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	return planToDTO(record), nil
}

// SuggestReplacements proposes recipes for one slot of a plan
func (s *Service) SuggestReplacements(ctx context.Context, cmd inbound.SuggestReplacementsCommand) ([]inbound.RecipeSummaryDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, invalidCommand(err)
	}
	if cmd.MealItemID == nil && cmd.Slot == nil {
		return nil, errors.NewValidationError("either meal item or slot is required")
	}
	if cmd.Slot != nil && !cmd.Slot.Valid() {
		return nil, errors.NewValidationError("invalid meal slot")
	}

	prefs, err := s.loadPreferences(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	var exclude *uuid.UUID
	var slot mealplan.MealSlot
	if cmd.MealItemID != nil {
		item, err := s.loadOwnedItem(ctx, cmd.UserID, *cmd.MealItemID)
		if err != nil {
			return nil, err
		}
		slot = item.Slot
		recipeID := item.Recipe.ID
		exclude = &recipeID
	}
	if cmd.Slot != nil {
		slot = *cmd.Slot
	}

	recipes, err := s.suggester.Suggest(ctx, *prefs, slot, exclude, cmd.Limit)
	if err != nil {
		return nil, errors.NewDatabaseError("source suggestions", err)
	}

	out := make([]inbound.RecipeSummaryDTO, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, recipeToDTO(r))
	}
	return out, nil
}

// ReplaceMealItem assigns a different recipe to a stored meal item
func (s *Service) ReplaceMealItem(ctx context.Context, cmd inbound.ReplaceMealItemCommand) (*inbound.MealItemDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, invalidCommand(err)
	}

	item, err := s.loadOwnedItem(ctx, cmd.UserID, cmd.MealItemID)
	if err != nil {
		return nil, err
	}

	r, err := s.catalog.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	if err := s.plans.UpdateMealItemRecipe(ctx, item.ID, r.ID); err != nil {
		return nil, errors.NewDatabaseError("update meal item", err)
	}

	s.logger.Info("Meal item replaced",
		zap.String("meal_item_id", item.ID.String()),
		zap.String("recipe_id", r.ID.String()),
	)

	item.Recipe = *r
	dto := itemToDTO(*item)
	return &dto, nil
}

func (s *Service) loadPreferences(ctx context.Context, userID uuid.UUID) (*mealplan.UserPreferences, error) {
	prefs, err := s.preferences.FindByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewPreferencesNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("find user preferences", err)
	}
	if prefs.CaloriesGoal <= 0 {
		prefs.CaloriesGoal = s.config.DefaultCaloriesGoal
	}
	return prefs, nil
}

func (s *Service) loadOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*outbound.MealItemRecord, error) {
	item, err := s.plans.FindMealItem(ctx, itemID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewMealItemNotFoundError(itemID.String())
		}
		return nil, errors.NewDatabaseError("find meal item", err)
	}
	if item.UserID != userID {
		return nil, errors.NewInsufficientPermissionsError("modify this meal item")
	}
	return item, nil
}

// planDays resolves the horizon: requested, else default, capped by the
// user's ceiling and the service maximum.
func (s *Service) planDays(requested, userMax int) int {
	days := requested
	if days < 1 {
		days = s.config.DefaultDays
	}
	limit := s.config.MaxDays
	if userMax > 0 && userMax < limit {
		limit = userMax
	}
	return min(days, limit)
}

func planToDTO(record *outbound.MealPlanRecord) *inbound.MealPlanDTO {
	byDay := make(map[int]*inbound.DayDTO)
	for _, item := range record.Items {
		day, ok := byDay[item.Day]
		if !ok {
			day = &inbound.DayDTO{Day: item.Day, Label: item.DayLabel}
			byDay[item.Day] = day
		}
		day.Meals = append(day.Meals, itemToDTO(item))
	}

	dto := &inbound.MealPlanDTO{
		ID:        record.ID,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
	}
	for _, day := range byDay {
		sort.Slice(day.Meals, func(i, j int) bool { return day.Meals[i].Slot < day.Meals[j].Slot })
		dto.Days = append(dto.Days, *day)
	}
	sort.Slice(dto.Days, func(i, j int) bool { return dto.Days[i].Day < dto.Days[j].Day })
	return dto
}

func itemToDTO(item outbound.MealItemRecord) inbound.MealItemDTO {
	return inbound.MealItemDTO{
		ID:       item.ID,
		Slot:     int(item.Slot),
		MealType: item.MealType,
		Recipe:   recipeToDTO(item.Recipe),
	}
}

func recipeToDTO(r mealplan.Recipe) inbound.RecipeSummaryDTO {
	return inbound.RecipeSummaryDTO{
		ID:           r.ID,
		ExternalID:   r.ExternalID,
		Title:        r.Title,
		ImageURL:     r.ImageURL,
		ReadyMinutes: r.ReadyMinutes,
		Calories:     r.Calories,
		Servings:     r.Servings,
	}
}

// invalidCommand converts validator failures into a validation error
func invalidCommand(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}
	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag()),
		})
	}
	return errors.NewValidationErrors(details)
}
