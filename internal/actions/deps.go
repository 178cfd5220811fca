package actions

import (
	"context"

	"golang.org/x/net/websocket"

	"wrfcloud/internal/api"
	"wrfcloud/internal/auth"
	"wrfcloud/internal/cluster"
	"wrfcloud/internal/domain/job"
	"wrfcloud/internal/repository"
	"wrfcloud/pkg/mailer"
)

// ObjectStore is the slice of the artifact store the actions use.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteFolder(ctx context.Context, bucket, prefix string) error
}

// Notifier fans job updates out to subscribed WebSocket clients.
type Notifier interface {
	Subscribe(ws *websocket.Conn, email string)
	JobUpdated(j *job.WrfJob)
}

// Deps carries the collaborators shared by all actions. Each action
// instance is constructed fresh per request and holds no state of its own
// beyond the embedded result plumbing.
type Deps struct {
	Users        repository.UserRepository
	Jobs         repository.JobRepository
	ModelConfigs repository.ModelConfigRepository
	Tokens       *auth.TokenService
	Mail         mailer.Sender
	Storage      ObjectStore
	Cluster      cluster.Interface
	Notifier     Notifier

	Bucket string
	AppURL string
}

// Register wires every action into the registry. The policy store is
// validated against this set at startup, so the names here are the single
// source of truth for what the API can do.
func Register(r *api.Registry, deps *Deps) {
	r.MustRegister("Login", func() api.Action { return &Login{deps: deps} })
	r.MustRegister("RefreshToken", func() api.Action { return &RefreshToken{deps: deps} })
	r.MustRegister("ValidateToken", func() api.Action { return &ValidateToken{} })
	r.MustRegister("WhoAmI", func() api.Action { return &WhoAmI{deps: deps} })
	r.MustRegister("ChangePassword", func() api.Action { return &ChangePassword{deps: deps} })
	r.MustRegister("RequestPasswordRecoveryToken", func() api.Action { return &RequestPasswordRecoveryToken{deps: deps} })
	r.MustRegister("ResetPassword", func() api.Action { return &ResetPassword{deps: deps} })
	r.MustRegister("ActivateUser", func() api.Action { return &ActivateUser{deps: deps} })

	r.MustRegister("CreateUser", func() api.Action { return &CreateUser{deps: deps} })
	r.MustRegister("ListUsers", func() api.Action { return &ListUsers{deps: deps} })
	r.MustRegister("UpdateUser", func() api.Action { return &UpdateUser{deps: deps} })
	r.MustRegister("DeleteUser", func() api.Action { return &DeleteUser{deps: deps} })

	r.MustRegister("ListJobs", func() api.Action { return &ListJobs{deps: deps} })
	r.MustRegister("SubscribeJobs", func() api.Action { return &SubscribeJobs{deps: deps} })
	r.MustRegister("CancelJob", func() api.Action { return &CancelJob{deps: deps} })
	r.MustRegister("DeleteJob", func() api.Action { return &DeleteJob{deps: deps} })
	r.MustRegister("RunWrf", func() api.Action { return &RunWrf{deps: deps} })
	r.MustRegister("GetWrfMetaData", func() api.Action { return &GetWrfMetaData{deps: deps} })
	r.MustRegister("GetWrfGeoJson", func() api.Action { return &GetWrfGeoJson{deps: deps} })

	r.MustRegister("ListModelConfigurations", func() api.Action { return &ListModelConfigurations{deps: deps} })
	r.MustRegister("AddModelConfiguration", func() api.Action { return &AddModelConfiguration{deps: deps} })
	r.MustRegister("UpdateModelConfiguration", func() api.Action { return &UpdateModelConfiguration{deps: deps} })
	r.MustRegister("DeleteModelConfiguration", func() api.Action { return &DeleteModelConfiguration{deps: deps} })
}
