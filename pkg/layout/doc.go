// Package layout assigns diagram coordinates while keeping the picture
// stable across regenerations.
//
// A [Manager] decides per node whether to keep its previous coordinate or
// ask an [Oracle] for a new one:
//
//   - preserve=true: nodes that existed before keep their exact position;
//     only new nodes are placed by the oracle, and the oracle is not
//     consulted at all when every node is known
//   - preserve=false: every position is recomputed for the requested
//     direction
//
// The manager does no geometry itself beyond an anchor offset added to the
// oracle's coordinates (see [Offset]). Connector sides come from the
// direction only.
//
// # Oracles
//
// The production oracle runs Graphviz dot (package layout/graphviz).
// [Layered] is a small deterministic tree layout without external
// dependencies. [CachingOracle] memoizes any oracle in a cache.Cache.
//
// # Failure
//
// When the oracle fails or omits a node, the node falls back to its last
// known coordinate, or the origin if it never had one. The result is always
// complete; the returned error carries ORACLE_FAILURE and the fallback IDs
// are listed in [Result.Fallbacks].
package layout
