package main

import (
	gl "github.com/go-gl/gl/v3.1/gles2"
	mgl "github.com/go-gl/mathgl/mgl32"
)

const (
	curveVertexShader = `
    precision highp float;
    attribute vec3 a_position;
    uniform mat4 u_transform;
    void main(void) {
      gl_Position = u_transform * vec4(a_position, 1.0);
    };` + "\x00"
	curveFragmentShader = `
    precision highp float;
    uniform vec4 u_color;
    void main(void) {
      gl_FragColor = u_color;
    };` + "\x00"
)

const curveSpinRate = 0.3 // radians per second

type CurveDisplay struct {
	program     Program
	a_position  int32
	u_transform int32
	u_color     int32
}

func CreateCurveDisplay() (*CurveDisplay, error) {
	program, err := CreateProgram(curveVertexShader, curveFragmentShader)
	if err != nil {
		return nil, err
	}
	cd := &CurveDisplay{
		program:     program,
		a_position:  program.GetAttribLocation("a_position\x00"),
		u_transform: program.GetUniformLocation("u_transform\x00"),
		u_color:     program.GetUniformLocation("u_color\x00"),
	}
	return cd, nil
}

// Render draws the polyline as a connected strip under a fixed camera.
// The model slowly spins so depth reads even on a still chord.
func (cd *CurveDisplay) Render(points []mgl.Vec3, now float64) {
	if len(points) < 2 {
		return
	}
	aspect := float32(1)
	if fbSize.Y > 0 {
		aspect = float32(fbSize.X) / float32(fbSize.Y)
	}
	mProjection := mgl.Perspective(mgl.DegToRad(45), aspect, 0.1, 100)
	mView := mgl.LookAtV(
		mgl.Vec3{0, 1.2, 3.2},
		mgl.Vec3{0, 0, 0},
		mgl.Vec3{0, 1, 0})
	mModel := mgl.HomogRotate3D(float32(now*curveSpinRate), mgl.Vec3{0, 1, 0})
	mTransform := mProjection.Mul4(mView).Mul4(mModel)

	cd.program.Use()
	gl.UniformMatrix4fv(cd.u_transform, 1, false, &mTransform[0])
	gl.Uniform4f(cd.u_color, 0.55, 0.95, 0.8, 1.0)
	gl.EnableVertexAttribArray(uint32(cd.a_position))
	gl.VertexAttribPointer(
		uint32(cd.a_position), 3, gl.FLOAT, false, 0,
		gl.Ptr(&points[0][0]))
	gl.DrawArrays(gl.LINE_STRIP, 0, int32(len(points)))
	gl.DisableVertexAttribArray(uint32(cd.a_position))
}

func (cd *CurveDisplay) Close() error {
	return cd.program.Close()
}
