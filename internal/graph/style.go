// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import "strings"

// Category tags recognized by the builder.
const (
	CategoryObject        = "Cog1"
	CategoryObjectGeneric = "Cog1gen"
	CategoryProperty      = "Cog2p"
	CategoryState         = "Cog2t"
	CategoryAction        = "Cog2v"
	CategoryPart          = "Cog3Int"
	CategoryProduct       = "Cog3Der"
	CategoryEnvironment   = "Cog4"
	CategorySecondary     = "Cog5"
	CategoryTemporal      = "TD_"
	CategoryMovement      = "MOV_"
	CategoryOperation     = "PLACTAC"
)

// Role names the semantic class that produced a node. It doubles as the
// node ID prefix.
type Role string

const (
	RoleObject      Role = "obj"
	RoleProperty    Role = "prop"
	RoleState       Role = "state"
	RoleAction      Role = "action"
	RolePart        Role = "part"
	RoleProduct     Role = "prod"
	RoleEnvironment Role = "env"
	RoleSecondary   Role = "cog5"
	RoleTemporal    Role = "td"
	RoleMovement    Role = "mov"
	RoleOperation   Role = "plac"
)

// Style is the visual appearance of a node.
type Style struct {
	Fill  string
	Flags string
	Shape string
}

var (
	objectStyle    = Style{Fill: "#FFE6E6", Flags: "rounded,filled"}
	secondaryStyle = Style{Fill: "#FFE6CC", Flags: "rounded,filled,dashed"}
)

// matcher decides whether a category belongs to a rule.
type matcher func(category string) bool

func exact(tag string) matcher {
	return func(category string) bool { return category == tag }
}

func prefix(tag string) matcher {
	return func(category string) bool { return strings.HasPrefix(category, tag) }
}

// relation maps a category onto the node and edge it produces under a
// track's anchor object.
type relation struct {
	match     matcher
	role      Role
	withTrack bool
	style     Style
	label     string
	color     string
}

// relations is consulted in order; the first match wins.
var relations = []relation{
	{match: exact(CategoryProperty), role: RoleProperty, withTrack: true,
		style: Style{Fill: "#E6F3FF", Flags: "rounded,filled"}, label: "has property", color: "#0066CC"},
	{match: exact(CategoryState), role: RoleState, withTrack: true,
		style: Style{Fill: "#FFF9E6", Flags: "rounded,filled"}, label: "in state", color: "#CC9900"},
	{match: exact(CategoryAction), role: RoleAction, withTrack: true,
		style: Style{Fill: "#E6FFE6", Flags: "rounded,filled", Shape: "ellipse"}, label: "does", color: "#00AA00"},
	{match: exact(CategoryPart), role: RolePart, withTrack: true,
		style: Style{Fill: "#F0E6FF", Flags: "rounded,filled"}, label: "has part", color: "#9900CC"},
	{match: exact(CategoryProduct), role: RoleProduct, withTrack: true,
		style: Style{Fill: "#FFE6F0", Flags: "rounded,filled"}, label: "produces", color: "#CC0066"},
	{match: prefix(CategoryEnvironment), role: RoleEnvironment,
		style: Style{Fill: "#E6F9FF", Flags: "rounded,filled", Shape: "house"}, label: "in", color: "#0099CC"},
}

// marker describes a free-standing node block emitted after the track pass.
type marker struct {
	heading      string
	match        matcher
	role         Role
	style        Style
	withCategory bool
}

// markers are emitted in this order, each under its own comment heading.
var markers = []marker{
	{heading: "Temporal markers", match: prefix(CategoryTemporal), role: RoleTemporal,
		style: Style{Fill: "#FFFFCC", Flags: "rounded,filled", Shape: "note"}, withCategory: true},
	{heading: "Movement markers", match: prefix(CategoryMovement), role: RoleMovement,
		style: Style{Fill: "#E6CCFF", Flags: "rounded,filled", Shape: "diamond"}, withCategory: true},
	{heading: "Human operations", match: prefix(CategoryOperation), role: RoleOperation,
		style: Style{Fill: "#FFD6CC", Flags: "rounded,filled", Shape: "octagon"}},
}

func isAnchor(category string) bool {
	return category == CategoryObject || category == CategoryObjectGeneric
}

func relationFor(category string) (relation, bool) {
	for _, r := range relations {
		if r.match(category) {
			return r, true
		}
	}
	return relation{}, false
}
