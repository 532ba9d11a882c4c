// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/shaderdsl/ast"
	"github.com/gogpu/shaderdsl/types"
)

// fragment returns a fragment context with a vec4 output and an empty
// entry point.
func fragment(target types.Target) (*ast.Context, *ast.FuncDef, *ast.Variable) {
	ctx := ast.NewContext(target, ast.StageFragment)
	color := ast.NewVariable("color", types.Vec4, ast.DeclOut)
	color.Location = 0
	color.Global = true
	ctx.Outputs = append(ctx.Outputs, color)
	main := &ast.FuncDef{Name: "main", Sig: types.NewFunctionType("main", nil), Body: &ast.Block{}, Entry: true}
	ctx.Global.Append(main)
	return ctx, main, color
}

func lit(t *testing.T, typ *types.PrimitiveType, v any) ast.Expr {
	t.Helper()
	l, err := ast.NewLiteral(typ, v)
	if err != nil {
		t.Fatalf("NewLiteral(%v): %v", v, err)
	}
	return l
}

func vec4(t *testing.T, x, y, z, w float64) ast.Expr {
	return ast.NewConstructor(types.Vec4, []ast.Expr{
		lit(t, types.Float, x), lit(t, types.Float, y), lit(t, types.Float, z), lit(t, types.Float, w),
	})
}

func uniform(name string, typ types.Type) *ast.Variable {
	v := ast.NewVariable(name, typ, ast.DeclUniform)
	v.Global = true
	v.Space = types.SpaceUniform
	v.Binding = 0
	return v
}

func render(t *testing.T, ctx *ast.Context) (string, TranslationInfo) {
	t.Helper()
	src, info, err := Render(ctx)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return src, info
}

func mustContain(t *testing.T, src string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
}

// ===== Versions and headers =====

func TestRenderVersions(t *testing.T) {
	tests := []struct {
		target  types.Target
		version Version
		want    []string
	}{
		{types.WebGL, VersionES100, []string{"#version 100", "precision highp float;", "gl_FragColor = vec4(1.0, 0.0, 0.0, 1.0);"}},
		{types.WebGL2, VersionES300, []string{"#version 300 es", "layout(location = 0) out vec4 color;", "color = vec4(1.0, 0.0, 0.0, 1.0);"}},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			ctx, main, color := fragment(tt.target)
			main.Body.Append(ast.NewAssign(ast.NewVarRef(color), vec4(t, 1, 0, 0, 1)))
			src, info := render(t, ctx)
			mustContain(t, src, tt.want...)
			mustContain(t, src, "void main() {")
			if info.Version != tt.version {
				t.Errorf("Version = %s, want %s", info.Version, tt.version)
			}
			if !strings.HasPrefix(src, "#version") {
				t.Errorf("source does not start with #version:\n%s", src)
			}
		})
	}
}

func TestRenderDefaultPrecision(t *testing.T) {
	ctx, _, _ := fragment(types.WebGL2)
	ctx.DefaultPrecision = ast.PrecisionMedium
	src, _ := render(t, ctx)
	mustContain(t, src, "precision mediump float;", "precision mediump int;")
}

func TestRenderRejectsWGSLTargets(t *testing.T) {
	ctx, _, _ := fragment(types.WebGPU)
	if _, _, err := Render(ctx); !types.IsKind(err, types.ErrInternal) {
		t.Errorf("Render(WebGPU) error = %v, want internal", err)
	}

	compute := ast.NewContext(types.WebGL2, ast.StageCompute)
	if _, _, err := Render(compute); !types.IsKind(err, types.ErrCapability) {
		t.Errorf("Render(compute) error = %v, want capability", err)
	}
}

// ===== Declarations =====

func TestRenderUniforms(t *testing.T) {
	ctx, main, color := fragment(types.WebGL2)
	tint := uniform("tint", types.Vec4)
	tex := uniform("albedo", types.NewTextureType(types.Dim2D, 0, types.ScalarF32))
	smp := uniform("zSampler_albedo", types.Sampler)
	ctx.Global.Stmts = append([]ast.Stmt{ast.NewVarDecl(tint, nil), ast.NewVarDecl(tex, nil), ast.NewVarDecl(smp, nil)}, ctx.Global.Stmts...)
	main.Body.Append(ast.NewAssign(ast.NewVarRef(color), ast.NewVarRef(tint)))

	src, _ := render(t, ctx)
	mustContain(t, src, "uniform vec4 tint;", "uniform sampler2D albedo;", "color = tint;")
	if strings.Contains(src, "zSampler_albedo") {
		t.Error("separate sampler declared in GLSL")
	}
}

func TestRenderUniformBlock(t *testing.T) {
	st, err := types.NewStructType("Camera", types.LayoutStd140, types.Field{Name: "viewProj", Type: types.Mat4})
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		target types.Target
		want   string
	}{
		{types.WebGL2, "layout(std140) uniform zBlock_camera {"},
		{types.WebGL, "uniform Camera camera;"},
	} {
		t.Run(tt.target.String(), func(t *testing.T) {
			ctx, _, _ := fragment(tt.target)
			cam := uniform("camera", st)
			cam.Buffer = true
			ctx.Structs = append(ctx.Structs, st)
			ctx.Global.Stmts = append([]ast.Stmt{&ast.StructDecl{Type: st}, ast.NewVarDecl(cam, nil)}, ctx.Global.Stmts...)
			src, _ := render(t, ctx)
			mustContain(t, src, tt.want)
		})
	}
}

func TestRenderDepthOverride(t *testing.T) {
	ctx, _, _ := fragment(types.WebGL2)
	depth := types.NewTextureType(types.Dim2D, types.TexDepth, types.ScalarF32)
	v := uniform("shadowMap", depth)
	ctx.Global.Stmts = append([]ast.Stmt{ast.NewVarDecl(v, nil)}, ctx.Global.Stmts...)

	src, info := render(t, ctx)
	mustContain(t, src, "uniform sampler2DShadow shadowMap;", "precision highp sampler2DShadow;")
	if len(info.PrecisionTypes) != 1 || info.PrecisionTypes[0] != "sampler2DShadow" {
		t.Errorf("PrecisionTypes = %v", info.PrecisionTypes)
	}

	plain := *depth
	plain.Flags &^= types.TexDepth
	ctx.TypeOverride[v] = &plain
	src, _ = render(t, ctx)
	mustContain(t, src, "uniform sampler2D shadowMap;")
}

func TestRenderStorageRejected(t *testing.T) {
	ctx, _, _ := fragment(types.WebGL2)
	v := ast.NewVariable("data", types.NewArrayType(types.Float, 0), ast.DeclStorage)
	v.Global = true
	ctx.Global.Stmts = append([]ast.Stmt{ast.NewVarDecl(v, nil)}, ctx.Global.Stmts...)
	if _, _, err := Render(ctx); !types.IsKind(err, types.ErrCapability) {
		t.Errorf("error = %v, want capability", err)
	}
}

// ===== Expressions =====

func TestRenderKeywordEscaping(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"input", "_input"},
		{"gl_Thing", "_gl_Thing"},
		{"a__b", "a_0b"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeKeyword(tt.name); got != tt.want {
				t.Errorf("escapeKeyword(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestRenderBuiltinNames(t *testing.T) {
	x := uniform("x", types.Vec3)
	tests := []struct {
		name string
		want string
	}{
		{"inverseSqrt", "inversesqrt(x)"},
		{"faceForward", "faceforward(x)"},
		{"normalize", "normalize(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, main, _ := fragment(types.WebGL2)
			ctx.Global.Stmts = append([]ast.Stmt{ast.NewVarDecl(x, nil)}, ctx.Global.Stmts...)
			sig := types.NewFunctionType(tt.name, types.Vec3, types.Param{Name: "a", Type: types.Vec3})
			call := ast.NewCall(tt.name, true, sig, []ast.Expr{ast.NewVarRef(x)})
			local := ast.NewVariable("r", types.Vec3, ast.DeclNone)
			main.Body.Append(ast.NewVarDecl(local, call))
			src, _ := render(t, ctx)
			mustContain(t, src, tt.want)
		})
	}
}

func TestRenderIntegerModulo(t *testing.T) {
	i := uniform("n", types.Int)
	for _, tt := range []struct {
		target types.Target
		want   string
	}{
		{types.WebGL, "(n - (3 * (n / 3)))"},
		{types.WebGL2, "(n % 3)"},
	} {
		t.Run(tt.target.String(), func(t *testing.T) {
			ctx, main, _ := fragment(tt.target)
			ctx.Global.Stmts = append([]ast.Stmt{ast.NewVarDecl(i, nil)}, ctx.Global.Stmts...)
			mod := ast.NewBinary("%", ast.NewVarRef(i), lit(t, types.Int, 3), types.Int)
			main.Body.Append(ast.NewVarDecl(ast.NewVariable("r", types.Int, ast.DeclNone), mod))
			src, _ := render(t, ctx)
			mustContain(t, src, tt.want)
		})
	}
}

func TestRenderSelect(t *testing.T) {
	a := uniform("a", types.Vec3)
	cond := uniform("c", types.Bool)
	vcond := uniform("vc", types.BVec3)
	selectOf := func(c *ast.Variable) *ast.Call {
		sig := types.NewFunctionType("select", types.Vec3,
			types.Param{Name: "f", Type: types.Vec3},
			types.Param{Name: "t", Type: types.Vec3},
			types.Param{Name: "c", Type: c.Type})
		return ast.NewCall("select", true, sig, []ast.Expr{ast.NewVarRef(a), ast.NewVarRef(a), ast.NewVarRef(c)})
	}
	tests := []struct {
		name    string
		target  types.Target
		cond    *ast.Variable
		want    string
		wantErr bool
	}{
		{"scalar ES100", types.WebGL, cond, "(c ? a : a)", false},
		{"vector ES300", types.WebGL2, vcond, "mix(a, a, vc)", false},
		{"vector ES100", types.WebGL, vcond, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, main, _ := fragment(tt.target)
			ctx.Global.Stmts = append([]ast.Stmt{ast.NewVarDecl(a, nil), ast.NewVarDecl(tt.cond, nil)}, ctx.Global.Stmts...)
			main.Body.Append(ast.NewVarDecl(ast.NewVariable("r", types.Vec3, ast.DeclNone), selectOf(tt.cond)))
			src, _, err := Render(ctx)
			if tt.wantErr {
				if !types.IsKind(err, types.ErrCapability) {
					t.Errorf("error = %v, want capability", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			mustContain(t, src, tt.want)
		})
	}
}
