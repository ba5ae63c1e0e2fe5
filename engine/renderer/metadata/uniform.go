package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformBufferObject mirrors the vertex shader's binding 0 block.
type UniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

const UniformBufferObjectSize = uint64(unsafe.Sizeof(UniformBufferObject{}))

var (
	cameraEye    = mgl32.Vec3{2, 2, 2}
	cameraCenter = mgl32.Vec3{0, 0, 0}
	cameraUp     = mgl32.Vec3{0, 0, 1}
)

// NewUniformBufferObject builds the transforms for a model spinning
// 60 degrees per second around Z, seen from (2,2,2).
func NewUniformBufferObject(elapsedSeconds float64, width, height uint32) UniformBufferObject {
	angle := float32(elapsedSeconds) * mgl32.DegToRad(60)
	aspect := float32(1)
	if height != 0 {
		aspect = float32(width) / float32(height)
	}

	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 10)
	// Vulkan clip space has Y pointing down.
	proj.Set(1, 1, -proj.At(1, 1))

	return UniformBufferObject{
		Model: mgl32.HomogRotate3DZ(angle),
		View:  mgl32.LookAtV(cameraEye, cameraCenter, cameraUp),
		Proj:  proj,
	}
}

func (u *UniformBufferObject) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), UniformBufferObjectSize)
}
