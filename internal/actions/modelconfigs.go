package actions

import (
	"errors"
	"log"

	"wrfcloud/internal/api"
	"wrfcloud/internal/domain/modelconfig"
	apperrors "wrfcloud/pkg/errors"
	"wrfcloud/pkg/validator"
)

// ListModelConfigurations returns one configuration or all of them.
type ListModelConfigurations struct {
	api.ActionBase
	deps *Deps
}

func (a *ListModelConfigurations) RequiredFields() []string { return nil }
func (a *ListModelConfigurations) OptionalFields() []string {
	return []string{"model_config_id"}
}

func (a *ListModelConfigurations) Perform(rc *api.Context) bool {
	if name, ok := api.StringField(rc.Request.Data, "model_config_id"); ok {
		mc, err := a.deps.ModelConfigs.Get(rc.Ctx, name)
		if err != nil {
			return a.Fail(msgConfigurationNotFound)
		}
		a.SetResponse(map[string]any{"model_configs": []*modelconfig.ModelConfig{mc}})
		return true
	}

	configs, err := a.deps.ModelConfigs.List(rc.Ctx)
	if err != nil {
		log.Printf("[%s] failed to list model configurations: %v", rc.RefID, err)
		return false
	}
	a.SetResponse(map[string]any{"model_configs": configs})
	return true
}

// AddModelConfiguration stores a new model configuration.
type AddModelConfiguration struct {
	api.ActionBase
	deps *Deps
}

func (a *AddModelConfiguration) RequiredFields() []string { return []string{"model_config"} }

func (a *AddModelConfiguration) Perform(rc *api.Context) bool {
	var mc modelconfig.ModelConfig
	if !api.DecodeField(rc.Request.Data, "model_config", &mc) {
		return a.Fail("Invalid model configuration payload")
	}

	if err := validator.ConfigName(mc.Name); err != nil {
		return a.Fail(err.Error())
	}

	if err := a.deps.ModelConfigs.Create(rc.Ctx, &mc); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return a.Fail(msgConfigurationInUse)
		}
		log.Printf("[%s] failed to create model configuration %s: %v", rc.RefID, mc.Name, err)
		return false
	}

	a.SetResponse(map[string]any{"model_config": mc})
	return true
}

// UpdateModelConfiguration replaces an existing configuration.
type UpdateModelConfiguration struct {
	api.ActionBase
	deps *Deps
}

func (a *UpdateModelConfiguration) RequiredFields() []string { return []string{"model_config"} }

func (a *UpdateModelConfiguration) Perform(rc *api.Context) bool {
	var mc modelconfig.ModelConfig
	if !api.DecodeField(rc.Request.Data, "model_config", &mc) {
		return a.Fail("Invalid model configuration payload")
	}

	if err := validator.ConfigName(mc.Name); err != nil {
		return a.Fail(err.Error())
	}

	if err := a.deps.ModelConfigs.Update(rc.Ctx, &mc); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return a.Fail(msgConfigurationNotFound)
		}
		log.Printf("[%s] failed to update model configuration %s: %v", rc.RefID, mc.Name, err)
		return false
	}

	a.SetResponse(map[string]any{"model_config": mc})
	return true
}

// DeleteModelConfiguration removes a configuration by name.
type DeleteModelConfiguration struct {
	api.ActionBase
	deps *Deps
}

func (a *DeleteModelConfiguration) RequiredFields() []string { return []string{"model_config_id"} }

func (a *DeleteModelConfiguration) Perform(rc *api.Context) bool {
	name, _ := api.StringField(rc.Request.Data, "model_config_id")

	if _, err := a.deps.ModelConfigs.Get(rc.Ctx, name); err != nil {
		return a.Fail(msgConfigurationNotFound)
	}

	if err := a.deps.ModelConfigs.Delete(rc.Ctx, name); err != nil {
		log.Printf("[%s] failed to delete model configuration %s: %v", rc.RefID, name, err)
		return false
	}

	a.SetResponse(map[string]any{"model_config_id": name})
	return true
}
