// Package catalog is the read side of the encyclopedia.
//
// It produces denormalised views joining catalogue rows with owned quantities
// from the collection ledger:
//
//   - ListSets: sets by release date, undated first, then name.
//   - CardsInSet: a set's cards in card-number order (numeric before promo
//     codes), each with only the variants printed in that set.
//   - SearchCardsByName: glyph- and punctuation-insensitive name search
//     grouped by card name, degrading to partial or empty results on errors.
//   - PricingForVariant / PricingForVariants: bulk pricing resolution through
//     the variant's pricing reference.
//
// Nothing here writes to either store.
package catalog
