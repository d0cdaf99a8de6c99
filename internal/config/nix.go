package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// evalNix shells out to nix-instantiate to evaluate a Nix expression file
// as strict JSON, per spec.md §6. This has no equivalent in cleanenv (or
// anywhere else in the dependency pack) and is the one format branch
// written entirely against the standard library's os/exec and
// encoding/json.
func evalNix(ctx context.Context, path string) (map[string]interface{}, error) {
	cmd := exec.CommandContext(ctx, "nix-instantiate", "--eval", "--json", "--strict", path)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("evaluating nix config %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("parsing nix-instantiate output for %s: %w", path, err)
	}

	return raw, nil
}
