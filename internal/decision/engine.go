// Package decision implements the Policy Decision Engine: a pure function
// from (stream inventory, container extension, policy) to a compliance
// verdict and, when the file is not compliant, a per-stream transcode
// plan. It holds no state and performs no I/O, in the style of a pure
// decision function rather than a stateful service.
package decision

import (
	"strings"

	"github.com/hbomb79/castmirror/internal/codec"
	"github.com/hbomb79/castmirror/internal/policy"
	"github.com/hbomb79/castmirror/internal/stream"
)

// Decide answers whether the file described by inv (with container
// extension ext, already normalized to lower-case) needs to be
// transcoded under pol, and if so synthesizes the per-stream plan.
func Decide(inv stream.Inventory, ext string, pol *policy.Policy) Result {
	plan, _ := buildPlan(inv, pol)

	formatNonCompliant := len(pol.SupportedFormats) > 0 && !containsFold(pol.SupportedFormats, ext)
	requirementsForceTranscode := evaluateRequirements(inv, pol, plan)

	needsTranscode := formatNonCompliant || requirementsForceTranscode

	result := Result{Compliant: !needsTranscode}
	if !needsTranscode {
		return result
	}

	result.Plan = plan
	if preferred := pol.PreferredExt(); preferred != "" {
		result.TargetFormat = preferred
		result.TargetExt = preferred
	} else {
		// Empty supported-formats: the format rule never fires and the
		// destination extension must not be rewritten (resolved Open
		// Question — the original panicked here).
		result.TargetExt = ext
	}

	return result
}

// buildPlan synthesizes, per Q2, the per-stream action: Supported if the
// stream's codec is already in supported-codecs, otherwise Transcode to
// the first supported codec of matching media kind that can encode. A
// stream with no viable target codec is omitted entirely (dropped from
// the output). Reports whether any retained stream is non-compliant.
func buildPlan(inv stream.Inventory, pol *policy.Policy) (Plan, bool) {
	var plan Plan
	anyNonCompliant := false

	for _, entry := range inv.Entries {
		if supportedDirectly(entry.CodecID, pol.SupportedCodecs) {
			plan = append(plan, TranscodeTask{StreamIndex: entry.Index, Copy: true})
			continue
		}

		target, ok := firstEncodableOfKind(entry.Kind, pol.SupportedCodecs)
		if !ok {
			continue
		}

		plan = append(plan, TranscodeTask{StreamIndex: entry.Index, Copy: false, TargetCodec: target.ID})
		anyNonCompliant = true
	}

	return plan, anyNonCompliant
}

func supportedDirectly(id codec.ID, supported []codec.Codec) bool {
	for _, c := range supported {
		if c.ID == id {
			return true
		}
	}
	return false
}

func firstEncodableOfKind(kind stream.Kind, supported []codec.Codec) (codec.Codec, bool) {
	for _, c := range supported {
		if !c.Encodable || string(c.Kind) != string(kind) {
			continue
		}
		return c, true
	}
	return codec.Codec{}, false
}

// evaluateRequirements walks pol.Required in priority order. The first
// requirement matching a given stream determines that stream's
// contribution; once a stream has been claimed by a requirement, later,
// less-specific requirements do not re-evaluate it (spec.md §4.4,
// "Priority across requirements").
func evaluateRequirements(inv stream.Inventory, pol *policy.Policy, plan Plan) bool {
	claimed := make(map[int]bool, len(inv.Entries))

	compliantByIndex := make(map[int]bool, len(plan))
	for _, t := range plan {
		compliantByIndex[t.StreamIndex] = t.Copy
	}

	for _, req := range pol.Required {
		var matched []stream.Entry
		for _, e := range inv.Entries {
			if claimed[e.Index] {
				continue
			}
			if req.Matches(e) {
				matched = append(matched, e)
			}
		}

		if len(matched) == 0 {
			continue
		}
		for _, e := range matched {
			claimed[e.Index] = true
		}

		if verdict(req.Effective(), matched, compliantByIndex) {
			return true
		}
	}

	return false
}

// verdict implements the per-requirement truth table from spec.md §4.4.
func verdict(level policy.RequirementLevel, matched []stream.Entry, compliantByIndex map[int]bool) bool {
	switch level {
	case policy.LevelAll:
		for _, e := range matched {
			if !compliantByIndex[e.Index] {
				return true
			}
		}
		return false
	case policy.LevelAtLeastOne:
		for _, e := range matched {
			if compliantByIndex[e.Index] {
				return false
			}
		}
		return true
	default: // WithOther, Ignore, and Decline (collapsed to Ignore)
		return false
	}
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
