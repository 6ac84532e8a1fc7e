package scene

import (
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/animator"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
)

// ObjectKind identifies one of the fixed scene objects.
type ObjectKind int

const (
	KindRoad ObjectKind = iota
	KindLeftSticks
	KindRightSticks
	KindLeftCarLights
	KindRightCarLights
)

// drawOrder lists the kinds in the order they are drawn: road, sticks, then streaks.
var drawOrder = []ObjectKind{KindRoad, KindLeftSticks, KindRightSticks, KindLeftCarLights, KindRightCarLights}

func (k ObjectKind) String() string {
	switch k {
	case KindRoad:
		return "road"
	case KindLeftSticks:
		return "left sticks"
	case KindRightSticks:
		return "right sticks"
	case KindLeftCarLights:
		return "left car lights"
	case KindRightCarLights:
		return "right car lights"
	default:
		return "unknown"
	}
}

// SceneObject is one drawable element of the highway: its geometry, its pipeline and its private animator.
type SceneObject interface {
	// Kind returns which object this is.
	Kind() ObjectKind

	// Mesh returns the CPU geometry. It is fixed after construction.
	Mesh() *Mesh

	// PipelineKey returns the key of the render pipeline that draws the object.
	PipelineKey() string

	// Animator returns the object's motion state.
	Animator() animator.Animator

	// MeshProvider returns the provider holding the uploaded vertex and index buffers.
	MeshProvider() bind_group_provider.BindGroupProvider

	// Release frees the mesh buffers and the animator's uniform.
	Release()
}

type sceneObject struct {
	kind        ObjectKind
	mesh        *Mesh
	pipelineKey string
	anim        animator.Animator
	meshBGP     bind_group_provider.BindGroupProvider
}

var _ SceneObject = &sceneObject{}

func newSceneObject(kind ObjectKind, mesh *Mesh, pipelineKey string, anim animator.Animator) *sceneObject {
	return &sceneObject{
		kind:        kind,
		mesh:        mesh,
		pipelineKey: pipelineKey,
		anim:        anim,
		meshBGP:     bind_group_provider.NewBindGroupProvider(kind.String() + " mesh"),
	}
}

func (o *sceneObject) Kind() ObjectKind {
	return o.kind
}

func (o *sceneObject) Mesh() *Mesh {
	return o.mesh
}

func (o *sceneObject) PipelineKey() string {
	return o.pipelineKey
}

func (o *sceneObject) Animator() animator.Animator {
	return o.anim
}

func (o *sceneObject) MeshProvider() bind_group_provider.BindGroupProvider {
	return o.meshBGP
}

func (o *sceneObject) Release() {
	o.meshBGP.Release()
	o.anim.Release()
}
