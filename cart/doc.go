// Package cart implements CART decision trees: binary trees whose internal
// nodes ask a Question about a feature vector and whose leaves hold the set of
// units routed to them.
//
// Trees are persisted in the pre-order binary node format read by the
// runtime:
//
//	Node := ForwardOffset(int32) ForwardOffset(int32) NodeType(int32)
//	        NotLeaf: RecordCount(uint32) RootRecordIndex(uint32) Record[RecordCount] Node Node
//	        Leaf:    AbstractSet(int32) Min(int32) Max(int32) SetType(int32) SetBody
//
// Internal unit sets are not stored. They are derived from the leaves by an
// explicit Propagate pass that callers run once the tree is complete.
package cart
