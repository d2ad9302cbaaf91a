package renderer

import "errors"

var (
	ErrNoSurface        = errors.New("renderer: no surface to bind to")
	ErrDisposed         = errors.New("renderer: engine disposed")
	ErrSceneDisposed    = errors.New("renderer: scene disposed")
	ErrCameraNotDefined = errors.New("renderer: no active camera defined")
	ErrLoopRunning      = errors.New("renderer: render loop already running")
)
