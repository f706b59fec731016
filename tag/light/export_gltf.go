package light

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

const gltfLightsExt = "KHR_lights_punctual"

// ExportGLTF writes the lights as an empty-node glTF scene carrying
// KHR_lights_punctual data. Area lights have no punctual equivalent and
// are exported as points, the scaled extents travel in the node extras.
func ExportGLTF(w io.Writer, lights []Descriptor, positionScale, areaScale, energyScale float32) error {
	doc := gltf.NewDocument()
	doc.ExtensionsUsed = append(doc.ExtensionsUsed, gltfLightsExt)

	defs := make([]interface{}, 0, len(lights))
	for i := range lights {
		l := &lights[i]

		defs = append(defs, gltfLightDef(l, energyScale))

		ex, ey, ez := l.EulerAngles()
		q := mgl32.AnglesToQuat(ex, ey, ez, mgl32.XYZ)

		node := &gltf.Node{
			Name:        fmt.Sprintf("Light_%d", i+1),
			Translation: l.ScaledPosition(positionScale),
			Rotation:    [4]float32{q.V[0], q.V[1], q.V[2], q.W},
			Extensions:  gltf.Extensions{gltfLightsExt: map[string]interface{}{"light": i}},
		}
		if l.Area != nil {
			node.Extras = map[string]interface{}{
				"areaWidth":  l.Area.Width * areaScale,
				"areaHeight": l.Area.Height * areaScale,
				"areaRadius": l.Area.Radius * areaScale,
			}
		}

		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, node)
	}

	doc.Extensions = gltf.Extensions{
		gltfLightsExt: map[string]interface{}{"lights": defs},
	}

	e := gltf.NewEncoder(w)
	e.AsBinary = true
	return e.Encode(doc)
}

func gltfLightDef(l *Descriptor, energyScale float32) map[string]interface{} {
	def := map[string]interface{}{
		"type":      gltfLightType(l.Kind),
		"color":     [3]float32{l.Color[0], l.Color[1], l.Color[2]},
		"intensity": l.Intensity * energyScale,
	}
	if l.Spot != nil {
		def["spot"] = map[string]interface{}{
			"innerConeAngle": l.Spot.InnerAngle,
			"outerConeAngle": l.Spot.OuterAngle,
		}
	}
	return def
}

func gltfLightType(k Kind) string {
	switch k {
	case Spot:
		return "spot"
	case Sun:
		return "directional"
	default:
		return "point"
	}
}
