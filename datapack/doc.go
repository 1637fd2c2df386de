// Package datapack maps compiled functions onto the file layout of a
// Minecraft datapack and maintains the pack's JSON documents: pack.mcmeta and
// the minecraft:load and minecraft:tick function tags.
package datapack
