//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderSources = map[string]string{
	"shaders/shader.vert": "shaders/vert.spv",
	"shaders/shader.frag": "shaders/frag.spv",
}

// Compiles the GLSL shaders to SPIR-V with glslc.
func (Build) Shaders() error {
	for src, dst := range shaderSources {
		if _, err := executeCmd("glslc", withArgs(src, "-o", dst), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Builds the meshview binary after compiling the shaders.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	fmt.Println("Building meshview...")
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/meshview", "."), withStream()); err != nil {
		return err
	}
	return nil
}
