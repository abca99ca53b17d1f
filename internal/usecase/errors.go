package usecase

import "errors"

// ErrDeploymentCancelled is returned when the operator declines the deployment prompt
var ErrDeploymentCancelled = errors.New("deployment cancelled")
