package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/xlab/closer"

	"learngl/internal/config"
	"learngl/internal/graphics"
	"learngl/internal/graphics/glapi"
	"learngl/internal/graphics/glapi/glnative"
	"learngl/internal/input"
	"learngl/internal/window"
)

func init() {
	runtime.LockOSThread()
}

// Minimal shaders
const (
	vertexSrc = `#version 410 core
layout(location = 0) in vec2 position;
void main() {
	gl_Position = vec4(position, 0.0, 1.0);
}`

	fragmentSrc = `#version 410 core
out vec4 fragColor;
void main() {
	fragColor = vec4(0.0, 1.0, 0.0, 1.0);
}`
)

// Triangle vertex positions (NDC)
var vertices = []float32{
	0.0, 0.5,
	-0.5, -0.5,
	0.5, -0.5,
}

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
	if err := run(); err != nil {
		log.Println(err)
		closer.Exit(1)
	}
	closer.Close()
}

func run() error {
	if err := window.Init(); err != nil {
		return err
	}
	defer window.Terminate()

	// Disable VSync for max raw framerate.
	im := input.NewManager()
	win, err := window.New(config.Window{Width: 800, Height: 600, Title: "OpenGL 4.1 - Single Triangle (Max Perf)"}, im)
	if err != nil {
		return err
	}
	defer win.Destroy()

	gl, err := glnative.Init()
	if err != nil {
		return err
	}

	program, shaders, err := graphics.BuildProgramSource(gl, vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	defer program.Delete()
	// shaders can be deleted after linking
	for _, sh := range shaders {
		sh.Delete()
	}

	mesh, err := graphics.NewMesh(gl, vertices, []uint32{0, 1, 2}, graphics.Interleaved(2))
	if err != nil {
		return err
	}
	defer mesh.Delete()

	// Minimal GL state for fastest clear+draw
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	program.Use()
	mesh.BindVAO()

	// FPS counter variables
	frames := 0
	last := time.Now()
	fpsTicker := time.NewTicker(time.Second)
	defer fpsTicker.Stop()

	for !win.ShouldClose() {
		for _, ev := range im.Poll() {
			if ev.Kind == input.EventKey && ev.Key == input.KeyEscape && ev.Action == input.Press {
				win.SetShouldClose(true)
			}
		}

		gl.Clear(glapi.ColorBufferBit)
		mesh.Render()

		win.SwapBuffers()
		win.PollEvents()

		frames++

		select {
		case <-fpsTicker.C:
			now := time.Now()
			elapsed := now.Sub(last).Seconds()
			if elapsed > 0 {
				fmt.Printf("FPS: %d\n", int(float64(frames)/elapsed+0.5))
			}
			frames = 0
			last = now
		default:
		}
	}
	return nil
}
