// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "github.com/pdiddy/oracle-engine/pkg/types"

// DefaultSublevelThreshold separates simple level codes like CX1B from
// composite sub-level codes like CX1BA.
const DefaultSublevelThreshold = 4

// DefaultConfig returns the tables shipped with the Oracle 4.x documents.
//
// Strategy letter P (Play in the PLOW framework) was annotated as
// Trabalho Gratificante in older revisions and Saúde Mental in newer ones;
// the newer reading is the default. Override it through configuration.
func DefaultConfig() types.ResolverConfig {
	return types.ResolverConfig{
		Overrides: []types.PrefixRule{
			// Objective families.
			{Prefix: "OPP", Dimension: "SF"},  // perder peso
			{Prefix: "OGM", Dimension: "SF"},  // ganhar massa
			{Prefix: "ODM", Dimension: "SF"},  // dormir melhor
			{Prefix: "OMMA", Dimension: "SM"}, // mindfulness e ansiedade
			{Prefix: "ORA", Dimension: "SM"},  // reduzir ansiedade
			{Prefix: "OAE", Dimension: "SM"},  // autoestima
			{Prefix: "ORE", Dimension: "R"},   // relacionamentos
			{Prefix: "OSPU", Dimension: "R"},  // ser pai/parceiro
			{Prefix: "OLM", Dimension: "TG"},  // ler mais
			{Prefix: "OVG", Dimension: "TG"},  // vida gratificante
			{Prefix: "OCE", Dimension: "E"},   // conexão espiritual
			{Prefix: "ODT", Dimension: "TT"},  // detox digital
			{Prefix: "OVP", Dimension: "PR"},  // vencer procrastinação
			{Prefix: "OOF", Dimension: "F"},   // organizar finanças
			// Trilha families.
			{Prefix: "CX", Dimension: "SF"},  // caminhada/corrida
			{Prefix: "ME", Dimension: "SF"},  // emagrecimento
			{Prefix: "HM", Dimension: "SF"},  // hipertrofia
			{Prefix: "SN", Dimension: "SF"},  // sono
			{Prefix: "AN", Dimension: "SM"},  // ansiedade
			{Prefix: "MF", Dimension: "SM"},  // mindfulness
			{Prefix: "AF", Dimension: "R"},   // afeto
			{Prefix: "LE", Dimension: "TG"},  // leitura
			{Prefix: "GR", Dimension: "E"},   // gratidão
			{Prefix: "DD", Dimension: "TT"},  // desintoxicação digital
			{Prefix: "FOC", Dimension: "PR"}, // foco
			{Prefix: "ORC", Dimension: "F"},  // orçamento
			// Sub-level codes that would misresolve by first letter.
			{Prefix: "VG1", Dimension: "TG"},
			{Prefix: "EXP", Dimension: "PR"},
		},
		Reserved: []types.PrefixRule{
			{Prefix: "TT", Dimension: "TT"},
			{Prefix: "PR", Dimension: "PR"},
			{Prefix: "FIN", Dimension: "F"},
		},
		WorkLetter:    "T",
		WorkDimension: "TG",
		Strategies: []types.StrategyRule{
			{Letter: "M", Default: "SM"},
			{Letter: "E", Default: "SF"},
			{Letter: "D", Default: "SF", Overrides: []types.KeywordOverride{
				{Keywords: []string{"detox", "digital", "tela", "screen"}, Dimension: "TT"},
			}},
			{Letter: "S", Default: "SM"},
			{Letter: "P", Default: "SM"},
			{Letter: "L", Default: "R"},
			{Letter: "O", Default: "SF"},
			{Letter: "W", Default: "TG"},
		},
	}
}

// Default returns a Resolver built from DefaultConfig.
func Default() *Resolver {
	return New(DefaultConfig())
}
