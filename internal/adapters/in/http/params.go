package http

import (
	"fieldservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathUUID binds a simple-style uuid path parameter.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromBytes(raw[:])
}
