// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/bureau-foundation/fig2json/lib/kiwi"
	"github.com/bureau-foundation/fig2json/lib/tree"
)

// defaultEpsilon is the tolerance for recognizing default numeric
// values. Stored values are float32, so anything that decodes within
// it of the default was written as the default.
const defaultEpsilon = 1e-9

// SimplifyEnums replaces every {"__enum__": E, "value": V} object with
// the string V.
func SimplifyEnums(root any) {
	replaceValues(root, func(value any) (any, bool) {
		object, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		if _, isEnum := object[kiwi.EnumKey]; !isEnum {
			return nil, false
		}
		name, ok := object[kiwi.EnumValueKey].(string)
		return name, ok
	})
}

// ColorsToCSS replaces every object with numeric r, g and b fields
// (and optionally a) by a CSS hex color. Channels are clamped to
// [0, 1]; the alpha byte is omitted when alpha is within 0.001 of 1.
func ColorsToCSS(root any) {
	replaceValues(root, func(value any) (any, bool) {
		object, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		return cssColor(object)
	})
}

func cssColor(object map[string]any) (string, bool) {
	var channels [3]float64
	for i, key := range []string{"r", "g", "b"} {
		raw, present := object[key]
		if !present {
			return "", false
		}
		channel, ok := tree.Float(raw)
		if !ok {
			return "", false
		}
		channels[i] = channel
	}

	alpha := 1.0
	if raw, present := object["a"]; present {
		if value, ok := tree.Float(raw); ok {
			alpha = value
		}
	}

	color := fmt.Sprintf("#%02x%02x%02x", channelByte(channels[0]), channelByte(channels[1]), channelByte(channels[2]))
	if math.Abs(alpha-1) >= 0.001 {
		color += fmt.Sprintf("%02x", channelByte(alpha))
	}
	return color, true
}

func channelByte(value float64) uint8 {
	if math.IsNaN(value) {
		return 0
	}
	return uint8(math.Round(min(max(value, 0), 1) * 255))
}

// ImageHashes rewrites the image and imageThumbnail objects of image
// paints: a hash byte array is replaced by a filename field pointing
// at the image's entry in the archive, "images/<hex>".
func ImageHashes(root any) {
	walk(root, func(object map[string]any) {
		for _, key := range []string{"image", "imageThumbnail"} {
			image, ok := object[key].(map[string]any)
			if !ok {
				continue
			}
			hash, ok := hashBytes(image["hash"])
			if !ok {
				continue
			}
			delete(image, "hash")
			image["filename"] = "images/" + hex.EncodeToString(hash)
		}
	})
}

func hashBytes(value any) ([]byte, bool) {
	switch hash := value.(type) {
	case []byte:
		return hash, true
	case []any:
		out := make([]byte, len(hash))
		for i, element := range hash {
			b, ok := tree.Index(element)
			if !ok || b > 255 {
				return nil, false
			}
			out[i] = byte(b)
		}
		return out, true
	default:
		return nil, false
	}
}

// RemoveGUIDs removes every guid field.
func RemoveGUIDs(root any) {
	walk(root, func(object map[string]any) {
		delete(object, "guid")
	})
}

// RemovePluginData removes every pluginData field.
func RemovePluginData(root any) {
	walk(root, func(object map[string]any) {
		delete(object, "pluginData")
	})
}

// RemoveDefaultOpacity removes opacity fields equal to 1.
func RemoveDefaultOpacity(root any) {
	removeNumber(root, "opacity", 1)
}

// RemoveDefaultRotation removes rotation fields equal to 0.
func RemoveDefaultRotation(root any) {
	removeNumber(root, "rotation", 0)
}

// RemoveDefaultVisible removes visible fields equal to true.
func RemoveDefaultVisible(root any) {
	walk(root, func(object map[string]any) {
		if visible, ok := object["visible"].(bool); ok && visible {
			delete(object, "visible")
		}
	})
}

// RemoveDefaultBlendMode removes blendMode fields equal to "NORMAL".
// Run it after [SimplifyEnums].
func RemoveDefaultBlendMode(root any) {
	walk(root, func(object map[string]any) {
		if mode, ok := object["blendMode"].(string); ok && mode == "NORMAL" {
			delete(object, "blendMode")
		}
	})
}

func removeNumber(root any, key string, defaultValue float64) {
	walk(root, func(object map[string]any) {
		raw, present := object[key]
		if !present {
			return
		}
		if value, ok := tree.Float(raw); ok && math.Abs(value-defaultValue) < defaultEpsilon {
			delete(object, key)
		}
	})
}

// RemoveEmptyObjects removes empty objects from object fields and
// list elements. Children are cleaned first, so an object that only
// held empty objects is removed as well. The root itself is kept.
func RemoveEmptyObjects(root any) {
	removeEmpty(root)
}

// removeEmpty cleans node and returns its replacement. Lists shrink,
// so the caller must store the result.
func removeEmpty(node any) any {
	switch value := node.(type) {
	case map[string]any:
		for key, child := range value {
			cleaned := removeEmpty(child)
			if isEmptyObject(cleaned) {
				delete(value, key)
				continue
			}
			value[key] = cleaned
		}
		return value
	case []any:
		kept := value[:0]
		for _, child := range value {
			cleaned := removeEmpty(child)
			if isEmptyObject(cleaned) {
				continue
			}
			kept = append(kept, cleaned)
		}
		clear(value[len(kept):])
		return kept
	default:
		return node
	}
}

func isEmptyObject(value any) bool {
	object, ok := value.(map[string]any)
	return ok && len(object) == 0
}

// RemoveRootBlobs removes the blobs field of the root object.
func RemoveRootBlobs(root any) {
	if object, ok := root.(map[string]any); ok {
		delete(object, "blobs")
	}
}
