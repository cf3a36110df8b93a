package engine

// GLSL sources for the three scene programs. Each mirrors a Go package:
// blob (pkg/blob + internal/math), sky (pkg/sky), grass (pkg/grass).

// Vertex shader for the blob surface
const blobVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 uv;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out vec2 vUv;
out vec3 vPosition;

void main() {
    vUv = uv;
    vPosition = (model * vec4(position, 1.0)).xyz;
    gl_Position = projection * view * vec4(vPosition, 1.0);
}
`

// Fragment shader for the blob surface: fractal hash noise pushed away from
// the pointer and cut into magenta and cyan bands.
const blobFragmentShaderSource = `
#version 410 core
in vec2 vUv;
in vec3 vPosition;
out vec4 FragColor;

uniform vec2 u_mouse;
uniform float u_time;
uniform vec2 u_boxSize;

uniform uint u_seed;
uniform float u_frequency;
uniform int u_octaves;
uniform float u_persistence;
uniform float u_lacunarity;
uniform float u_timeScale;
uniform float u_influenceRadius;
uniform float u_repulsionStrength;
uniform float u_threshold;
uniform float u_gain;

uint mixBits(uint x) {
    const uint m = 0x5bd1e995u;
    x *= m;
    x ^= x >> 24;
    x *= m;
    return x;
}

uint avalanche(uint h) {
    h ^= h >> 13;
    h ^= h >> 15;
    return h;
}

uint hash(uint x, uint seed) {
    return avalanche(seed ^ mixBits(x));
}

uint hashCell(uvec3 c, uint seed) {
    return avalanche(seed ^ mixBits(c.x) ^ mixBits(c.y) ^ mixBits(c.z));
}

vec3 gradient(uint h) {
    float s = ((h >> 3u) & 1u) == 1u ? 1.0 : -1.0;
    return vec3(float((h >> 2u) & 1u), float((h >> 1u) & 1u), float(h & 1u)) * s;
}

vec3 fade(vec3 t) {
    return t * t * t * (t * (t * 6.0 - 15.0) + 10.0);
}

float perlin(vec3 p, uint seed) {
    vec3 f = floor(p);
    vec3 r = p - f;
    uvec3 c = uvec3(ivec3(f));

    float v000 = dot(gradient(hashCell(c, seed)), r);
    float v100 = dot(gradient(hashCell(c + uvec3(1, 0, 0), seed)), r - vec3(1, 0, 0));
    float v010 = dot(gradient(hashCell(c + uvec3(0, 1, 0), seed)), r - vec3(0, 1, 0));
    float v110 = dot(gradient(hashCell(c + uvec3(1, 1, 0), seed)), r - vec3(1, 1, 0));
    float v001 = dot(gradient(hashCell(c + uvec3(0, 0, 1), seed)), r - vec3(0, 0, 1));
    float v101 = dot(gradient(hashCell(c + uvec3(1, 0, 1), seed)), r - vec3(1, 0, 1));
    float v011 = dot(gradient(hashCell(c + uvec3(0, 1, 1), seed)), r - vec3(0, 1, 1));
    float v111 = dot(gradient(hashCell(c + uvec3(1, 1, 1), seed)), r - vec3(1, 1, 1));

    vec3 t = fade(r);
    return mix(
        mix(mix(v000, v100, t.x), mix(v010, v110, t.x), t.y),
        mix(mix(v001, v101, t.x), mix(v011, v111, t.x), t.y),
        t.z
    );
}

float fractal(vec3 p) {
    float value = 0.0;
    float amplitude = 1.0;
    float frequency = u_frequency;
    uint seed = u_seed;
    for (int i = 0; i < u_octaves; i++) {
        seed = hash(seed, 0u);
        value += perlin(p * frequency, seed) * amplitude;
        amplitude *= u_persistence;
        frequency *= u_lacunarity;
    }
    return value;
}

// smoothstep with edge0 > edge1 is undefined in GLSL, so spell it out
float falloff(float edge0, float edge1, float x) {
    if (edge0 == edge1) {
        return x < edge0 ? 0.0 : 1.0;
    }
    float t = clamp((x - edge0) / (edge1 - edge0), 0.0, 1.0);
    return t * t * (3.0 - 2.0 * t);
}

void main() {
    vec2 position = vPosition.xy / u_boxSize * 2.0;
    float value = fractal(vec3(vUv, u_time * u_timeScale));

    float influence = falloff(u_influenceRadius, 0.0, distance(position, u_mouse)) * u_repulsionStrength;
    if (value < 0.0) value = min(0.0, value + influence);
    else value = max(0.0, value - influence);

    float intensity = max(0.0, abs(value) - u_threshold) * u_gain;
    vec3 color = value < -u_threshold ? vec3(1.0, 0.0, 1.0)
               : value > u_threshold ? vec3(0.0, 1.0, 1.0)
               : vec3(0.0);
    FragColor = vec4(color * intensity, 1.0);
}
`

// Vertex shader for the sky dome
const skyVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 position;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

out vec3 vPosition;

void main() {
    vPosition = position;
    gl_Position = projection * view * model * vec4(position, 1.0);
}
`

// Fragment shader for the sky dome: screen-space atmospheric scattering
const skyFragmentShaderSource = `
#version 410 core
in vec3 vPosition;
out vec4 FragColor;

uniform vec2 iResolution;
uniform float timeOfDay;

uniform float u_zenithOffset;
uniform float u_multiScatterPhase;
uniform float u_density;
uniform vec3 u_skyColor;
uniform float u_horizonFloor;
uniform float u_gamma;
uniform float u_sunPathScale;

const float pi = 3.14159265358979;

float zenithDensity(float y) {
    return u_density / pow(max(y - u_zenithOffset, u_horizonFloor), 0.75);
}

vec3 absorption(vec3 c, float d) {
    return exp2(c * -d) * 2.0;
}

float falloff(float edge0, float edge1, float x) {
    float t = clamp((x - edge0) / (edge1 - edge0), 0.0, 1.0);
    return t * t * (3.0 - 2.0 * t);
}

vec2 sunDirection(float t) {
    float angle = (t - 0.5) * pi * u_sunPathScale;
    return vec2(cos(angle), sin(angle));
}

vec3 scatter(vec2 p, vec2 sun) {
    float maxRes = max(max(iResolution.x, iResolution.y), 1.0);
    vec2 lp = sun / maxRes * iResolution.xy;
    float d = distance(p, lp);

    float zenith = zenithDensity(p.y);
    float sunPointDistMult = clamp(max(lp.y + u_multiScatterPhase - u_zenithOffset, 0.0), 0.0, 1.0);

    float rayleigh = 1.0 + pow(1.0 - clamp(d, 0.0, 1.0), 2.0) * pi * 0.5;
    float disk = clamp(1.0 - pow(d, 0.1), 0.0, 1.0);
    float mie = disk * disk * (3.0 - 2.0 * disk) * 2.0 * pi;

    vec3 skyAbs = absorption(u_skyColor, zenith);
    vec3 sunAbs = absorption(u_skyColor, zenithDensity(lp.y + u_multiScatterPhase));
    vec3 sky = u_skyColor * zenith * rayleigh;

    vec3 total = mix(sky * skyAbs, sky / (sky + 0.5), sunPointDistMult);
    total += falloff(0.03, 0.026, d) * 50.0 * skyAbs + mie * sunAbs;
    total *= sunAbs * 0.5 + 0.5 * length(sunAbs);
    return total;
}

vec3 tonemap(vec3 c) {
    float l = dot(c, vec3(0.2126, 0.7152, 0.0722));
    vec3 tc = c / (c + 1.0);
    return mix(c / (l + 1.0), tc, tc);
}

void main() {
    float maxRes = max(max(iResolution.x, iResolution.y), 1.0);
    vec2 p = gl_FragCoord.xy / maxRes * 2.0;

    vec3 color = scatter(p, sunDirection(timeOfDay)) * pi;
    color = tonemap(color);
    color = pow(max(color, vec3(0.0)), vec3(u_gamma));
    FragColor = vec4(color, 1.0);
}
`

// Vertex shader for instanced grass blades bent by the wind texture
const grassVertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 position;
layout (location = 2) in vec2 uv;
layout (location = 3) in mat4 instanceMatrix;

uniform mat4 projection;
uniform mat4 view;
uniform mat4 model;

uniform sampler2D windNoise;
uniform float iTime;
uniform float iPlaneSize;

out vec3 vWorldPosition;
out vec2 vUV;

const float pi = 3.14159265358979;

vec3 sphericalTransform(float m, float d, float h) {
    float sinmy = sin(m * h);
    float cosmy = cos(m * h);
    return vec3(sinmy * cos(d), cosmy, sinmy * sin(d)) * h;
}

void main() {
    vec4 worldPosition = instanceMatrix * vec4(position, 1.0);
    vWorldPosition = worldPosition.xyz;
    vUV = (worldPosition.xz + iPlaneSize * 0.5) / iPlaneSize;

    vec3 wind = texture(windNoise, vUV / 4.0 + vec2(iTime / 70000.0)).rgb;
    float magnitude = 1.0 - wind.r * 2.0;
    float direction = wind.b * pi;
    worldPosition.xyz += sphericalTransform(1.73 - magnitude, 1.1 * direction, position.y);

    gl_Position = projection * view * model * worldPosition;
}
`

// Fragment shader for grass: ground noise with drifting cloud shadows
const grassFragmentShaderSource = `
#version 410 core
in vec3 vWorldPosition;
in vec2 vUV;
out vec4 FragColor;

uniform float iTime;
uniform sampler2D grassNoise;
uniform sampler2D cloudShadow;

void main() {
    vec3 color = 1.5 * texture(grassNoise, vUV).rgb - vec3(0.5);
    color = mix(color, texture(cloudShadow, vUV + vec2(iTime / 15000.0)).rgb, 0.4);
    FragColor = vec4(color, 1.0);
}
`
