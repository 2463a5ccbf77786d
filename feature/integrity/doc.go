// Package integrity reports on the health of the local stores.
//
// # Checks Provided
//
//   - Schema: every catalogue, metadata and collection table exists with the columns its model declares.
//   - References: variants without a card, appearances without a set or variant, ledger rows with a
//     non-positive quantity or an unknown variant. Variants that appear in no set are counted separately.
//   - Dataset: when the dataset is read from object storage, the configured object is published.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
package integrity
