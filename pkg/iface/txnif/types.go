package txnif

type TxnReader interface {
	GetID() uint64
	IsReadOnly() bool
	GetTxnState() int32
	String() string
}

type TxnChanger interface {
	ToCommitting() error
	ToCommitted() error
	ToRollbacking() error
	ToRollbacked() error
}
