package render

import (
	"fmt"
	"strings"

	"linux-shadertoy/internal/gfx"
	"linux-shadertoy/internal/shadertoy"
)

const fragColor = "_shadertoy_fragColor"

// channelKind maps an input content type to the sampler kind it is declared with.
func channelKind(ctype string) gfx.Kind {
	switch ctype {
	case shadertoy.CTypeVolume:
		return gfx.Kind3D
	case shadertoy.CTypeCubemap:
		return gfx.KindCube
	}
	return gfx.Kind2D
}

// fragmentHeader builds the fixed preamble of a pass program. Channels without a
// declared input still get a sampler2D so shaders that reference them compile.
func fragmentHeader(version string, channels [shadertoy.Channels]gfx.Kind) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#version %s\n", version))
	sb.WriteString("#define HW_PERFORMANCE 1\n")
	sb.WriteString("precision highp float;\n")
	sb.WriteString("precision highp int;\n\n")

	sb.WriteString("uniform vec3  iResolution;\n")
	sb.WriteString("uniform float iTime;\n")
	sb.WriteString("uniform float iTimeDelta;\n")
	sb.WriteString("uniform float iFrameRate;\n")
	sb.WriteString("uniform int   iFrame;\n")
	sb.WriteString("uniform float iChannelTime[4];\n")
	sb.WriteString("uniform vec3  iChannelResolution[4];\n")
	sb.WriteString("uniform vec4  iMouse;\n")
	sb.WriteString("uniform vec4  iDate;\n")
	sb.WriteString("uniform float iSampleRate;\n")
	for i, kind := range channels {
		sb.WriteString(fmt.Sprintf("uniform %s iChannel%d;\n", kind.SamplerType(), i))
	}

	sb.WriteString(fmt.Sprintf("\nout vec4 %s;\n\n", fragColor))
	sb.WriteString("void mainImage(out vec4 fragColor, in vec2 fragCoord);\n\n")
	sb.WriteString("void main() {\n")
	sb.WriteString(fmt.Sprintf("    mainImage(%s, gl_FragCoord.xy);\n", fragColor))
	sb.WriteString("}\n\n")
	return sb.String()
}

// copyFragment copies a render target into another of the same size.
func copyFragment(version string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#version %s\n", version))
	sb.WriteString("uniform vec3 iResolution;\n")
	sb.WriteString("uniform sampler2D iSource;\n")
	sb.WriteString(fmt.Sprintf("out vec4 %s;\n", fragColor))
	sb.WriteString("void main() {\n")
	sb.WriteString(fmt.Sprintf("    %s = texture(iSource, gl_FragCoord.xy / iResolution.xy);\n", fragColor))
	sb.WriteString("}\n")
	return sb.String()
}
