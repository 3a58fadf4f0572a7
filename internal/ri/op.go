package ri

// Op identifies one request in the fixed operation set.
type Op uint16

const (
	OpUnknown Op = iota

	// Scope requests intercepted by the inline archive filter.
	OpArchiveBegin
	OpArchiveEnd
	OpReadArchive
	OpObjectBegin
	OpObjectEnd
	OpObjectInstance
	OpArchiveRecord

	// Bracket requests.
	OpFrameBegin
	OpFrameEnd
	OpWorldBegin
	OpWorldEnd
	OpAttributeBegin
	OpAttributeEnd
	OpTransformBegin
	OpTransformEnd

	// Attribute and shading state.
	OpAttribute
	OpColor
	OpOpacity
	OpSurface
	OpLightSource
	OpSides

	// Transforms.
	OpIdentity
	OpTranslate
	OpRotate
	OpScale
	OpConcatTransform

	// Geometry.
	OpSphere
	OpCylinder
	OpCone
	OpDisk
	OpPolygon
	OpPointsPolygons
	OpPoints

	opSentinel // keep last
)

// ArgKind describes one positional argument slot in a request signature.
type ArgKind uint8

const (
	ArgName ArgKind = iota + 1 // quoted token carried in Command.Name
	ArgString
	ArgInt
	ArgFloat
	ArgIntArray
	ArgFloatArray
)

// Signature is the positional shape of a request on the text and wire
// surfaces. Requests with HasParams accept a trailing token/value list.
type Signature struct {
	Args      []ArgKind
	HasParams bool
}

type opInfo struct {
	name string
	sig  Signature
}

var opTable = map[Op]opInfo{
	OpArchiveBegin:   {"ArchiveBegin", Signature{Args: []ArgKind{ArgName}, HasParams: true}},
	OpArchiveEnd:     {"ArchiveEnd", Signature{}},
	OpReadArchive:    {"ReadArchive", Signature{Args: []ArgKind{ArgName}, HasParams: true}},
	OpObjectBegin:    {"ObjectBegin", Signature{Args: []ArgKind{ArgName}}},
	OpObjectEnd:      {"ObjectEnd", Signature{}},
	OpObjectInstance: {"ObjectInstance", Signature{Args: []ArgKind{ArgName}}},
	OpArchiveRecord:  {"ArchiveRecord", Signature{Args: []ArgKind{ArgName, ArgString}}},

	OpFrameBegin:     {"FrameBegin", Signature{Args: []ArgKind{ArgInt}}},
	OpFrameEnd:       {"FrameEnd", Signature{}},
	OpWorldBegin:     {"WorldBegin", Signature{}},
	OpWorldEnd:       {"WorldEnd", Signature{}},
	OpAttributeBegin: {"AttributeBegin", Signature{}},
	OpAttributeEnd:   {"AttributeEnd", Signature{}},
	OpTransformBegin: {"TransformBegin", Signature{}},
	OpTransformEnd:   {"TransformEnd", Signature{}},

	OpAttribute:   {"Attribute", Signature{Args: []ArgKind{ArgName}, HasParams: true}},
	OpColor:       {"Color", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat}}},
	OpOpacity:     {"Opacity", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat}}},
	OpSurface:     {"Surface", Signature{Args: []ArgKind{ArgName}, HasParams: true}},
	OpLightSource: {"LightSource", Signature{Args: []ArgKind{ArgName, ArgString}, HasParams: true}},
	OpSides:       {"Sides", Signature{Args: []ArgKind{ArgInt}}},

	OpIdentity:        {"Identity", Signature{}},
	OpTranslate:       {"Translate", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat}}},
	OpRotate:          {"Rotate", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat, ArgFloat}}},
	OpScale:           {"Scale", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat}}},
	OpConcatTransform: {"ConcatTransform", Signature{Args: []ArgKind{ArgFloatArray}}},

	OpSphere:         {"Sphere", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat, ArgFloat}, HasParams: true}},
	OpCylinder:       {"Cylinder", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat, ArgFloat}, HasParams: true}},
	OpCone:           {"Cone", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat}, HasParams: true}},
	OpDisk:           {"Disk", Signature{Args: []ArgKind{ArgFloat, ArgFloat, ArgFloat}, HasParams: true}},
	OpPolygon:        {"Polygon", Signature{HasParams: true}},
	OpPointsPolygons: {"PointsPolygons", Signature{Args: []ArgKind{ArgIntArray, ArgIntArray}, HasParams: true}},
	OpPoints:         {"Points", Signature{HasParams: true}},
}

var opByName = func() map[string]Op {
	m := make(map[string]Op, len(opTable))
	for op, info := range opTable {
		m[info.name] = op
	}
	return m
}()

// String returns the request name as written in a RIB stream.
func (op Op) String() string {
	if info, ok := opTable[op]; ok {
		return info.name
	}
	return "Unknown"
}

// SignatureOf returns the positional signature for op.
func SignatureOf(op Op) (Signature, bool) {
	info, ok := opTable[op]
	return info.sig, ok
}

// OpByName resolves a request name to its Op.
func OpByName(name string) (Op, bool) {
	op, ok := opByName[name]
	return op, ok
}

// Ops returns every known op. Order is unspecified.
func Ops() []Op {
	out := make([]Op, 0, len(opTable))
	for op := range opTable {
		out = append(out, op)
	}
	return out
}
