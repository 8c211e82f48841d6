package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type KeyHandler func()

// KeyMap binds window keys to actions. Piano keys are resolved before
// the map is consulted, so bindings here never shadow playable notes.
type KeyMap map[glfw.Key]KeyHandler

func CreateKeyMap() KeyMap {
	return KeyMap{}
}

func (km KeyMap) Bind(key glfw.Key, handler KeyHandler) {
	km[key] = handler
}

func (km KeyMap) HandleKey(key glfw.Key) bool {
	if handler, ok := km[key]; ok {
		handler()
		return true
	}
	return false
}
