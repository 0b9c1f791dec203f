// Guessfilename
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Guessfilename.
//
// Guessfilename is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Guessfilename is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Guessfilename.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	MatchAny = "any"
	MatchAll = "all"

	// Placeholders accepted in KeywordRule.Title.
	PlaceholderTitle  = "{title}"
	PlaceholderAmount = "{amount}"
)

// KeywordRule tags files whose title contains its keywords. Title, when
// set, replaces the title of a matching file and may use the {title} and
// {amount} placeholders.
type KeywordRule struct {
	Name          string   `toml:"name" validate:"required"`
	Match         string   `toml:"match,omitempty" validate:"omitempty,oneof=any all"`
	Title         string   `toml:"title,omitempty" validate:"placeholders"`
	Keywords      []string `toml:"keywords" validate:"required,min=1,dive,required"`
	Tags          []string `toml:"tags,omitempty" validate:"dive,required,tagword"`
	Fuzzy         bool     `toml:"fuzzy,omitempty"`
	IgnoreCase    bool     `toml:"ignore_case,omitempty"`
	RequireAmount bool     `toml:"require_amount,omitempty"`
}

// MatchesAll reports whether every keyword has to be present.
func (r *KeywordRule) MatchesAll() bool {
	return strings.EqualFold(r.Match, MatchAll)
}

type Keywords struct {
	Rule []KeywordRule `toml:"rule,omitempty" validate:"dive"`
}

// LoadKeywordRules appends the rules of every .toml file below rulesDir,
// in lexical path order, after the rules of the main config file. Files
// that can't be read, parsed or validated are logged and skipped.
func (c *Instance) LoadKeywordRules(rulesDir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.fs.Stat(rulesDir)
	if err != nil {
		return fmt.Errorf("failed to stat rules directory: %w", err)
	}

	var ruleFiles []string

	err = afero.Walk(
		c.fs,
		rulesDir,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			if strings.ToLower(filepath.Ext(info.Name())) != ".toml" {
				return nil
			}

			ruleFiles = append(ruleFiles, path)

			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("failed to walk rules directory: %w", err)
	}
	slices.Sort(ruleFiles)
	log.Info().Msgf("found %d keyword rule files", len(ruleFiles))

	filesCount := 0
	rulesCount := 0

	for _, rulePath := range ruleFiles {
		log.Debug().Msgf("loading keyword rule file: %s", rulePath)

		data, err := afero.ReadFile(c.fs, rulePath)
		if err != nil {
			log.Error().Err(err).Msgf("error reading keyword rule file: %s", rulePath)
			continue
		}

		var newVals Values
		err = toml.Unmarshal(data, &newVals)
		if err != nil {
			log.Error().Err(err).Msgf("error parsing keyword rule file: %s", rulePath)
			continue
		}

		if err := validateStruct(newVals.Keywords); err != nil {
			log.Error().Err(err).Msgf("invalid keyword rule file: %s", rulePath)
			continue
		}

		c.vals.Keywords.Rule = append(c.vals.Keywords.Rule, newVals.Keywords.Rule...)

		filesCount++
		rulesCount += len(newVals.Keywords.Rule)
	}

	log.Info().Msgf("loaded %d keyword rule files, %d rules", filesCount, rulesCount)

	return nil
}

// KeywordRules returns a copy of the configured rules in evaluation order.
func (c *Instance) KeywordRules() []KeywordRule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rules := make([]KeywordRule, len(c.vals.Keywords.Rule))
	for i, r := range c.vals.Keywords.Rule {
		r.Keywords = slices.Clone(r.Keywords)
		r.Tags = slices.Clone(r.Tags)
		rules[i] = r
	}
	return rules
}
