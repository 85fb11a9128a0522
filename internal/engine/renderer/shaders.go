package renderer

// Two-color tint shading: the dark color replaces the shadowed parts of
// the texture while the light color multiplies the lit parts.

const vertexShader = `
#version 410 core
layout(location = 0) in vec2 aPosition;
layout(location = 1) in vec2 aUV;
layout(location = 2) in vec4 aColor;
layout(location = 3) in vec4 aDarkColor;

uniform mat4 uWorld;
uniform mat4 uView;

out vec2 vUV;
out vec4 vColor;
out vec4 vDarkColor;

void main() {
    gl_Position = uView * uWorld * vec4(aPosition, 0.0, 1.0);
    vUV = aUV;
    vColor = aColor;
    vDarkColor = aDarkColor;
}
`

const fragmentShader = `
#version 410 core
in vec2 vUV;
in vec4 vColor;
in vec4 vDarkColor;

uniform sampler2D uTexture;

out vec4 fragColor;

void main() {
    vec4 tex = texture(uTexture, vUV);
    fragColor = vec4(
        ((tex.a - 1.0) * vDarkColor.a + 1.0 - tex.rgb) * vDarkColor.rgb + tex.rgb * vColor.rgb,
        tex.a * vColor.a);
}
`
