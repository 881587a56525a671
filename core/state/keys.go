package state

// Key layout for the record ledger. Every record lives under a short kind
// prefix followed by its 32-byte id; per-owner id sequences and account
// records get their own prefixes so iteration stays cheap.
var (
	blinkPrefix      = []byte("blink/")
	nftPrefix        = []byte("nft/")
	collectionPrefix = []byte("collection/")
	donationPrefix   = []byte("donation/")
	paymentPrefix    = []byte("payment/")
	swapPrefix       = []byte("swapintent/")
	accountPrefix    = []byte("account/")
	sequencePrefix   = []byte("seq/")
	registryPrefix   = []byte("mintmeta/")
)

func recordKey(prefix []byte, id [32]byte) []byte {
	key := make([]byte, 0, len(prefix)+len(id))
	key = append(key, prefix...)
	return append(key, id[:]...)
}

func blinkKey(id [32]byte) []byte      { return recordKey(blinkPrefix, id) }
func nftKey(id [32]byte) []byte        { return recordKey(nftPrefix, id) }
func collectionKey(id [32]byte) []byte { return recordKey(collectionPrefix, id) }
func donationKey(id [32]byte) []byte   { return recordKey(donationPrefix, id) }
func paymentKey(id [32]byte) []byte    { return recordKey(paymentPrefix, id) }
func swapKey(id [32]byte) []byte       { return recordKey(swapPrefix, id) }

func accountKey(addr [20]byte) []byte {
	key := make([]byte, 0, len(accountPrefix)+len(addr))
	key = append(key, accountPrefix...)
	return append(key, addr[:]...)
}

// sequenceKey scopes the id counter per kind and per owner, so two owners
// creating records concurrently never contend on the same counter.
func sequenceKey(kind string, owner [20]byte) []byte {
	key := make([]byte, 0, len(sequencePrefix)+len(kind)+1+len(owner))
	key = append(key, sequencePrefix...)
	key = append(key, kind...)
	key = append(key, '/')
	return append(key, owner[:]...)
}

func registryKey(id [32]byte) []byte { return recordKey(registryPrefix, id) }
