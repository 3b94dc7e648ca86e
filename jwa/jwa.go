// Package jwa names the algorithm identifiers and header parameter keys
// defined by RFC 7518 (JSON Web Algorithms) and the IANA "JSON Web Signature
// and Encryption Algorithms" registry. It is pure vocabulary: no algorithm
// implementations live here, only the string constants the rest of this
// module's packages dispatch on.
package jwa

// SignatureAlgorithm names a JWS "alg" value.
type SignatureAlgorithm string

const (
	HS256 SignatureAlgorithm = "HS256"
	HS384 SignatureAlgorithm = "HS384"
	HS512 SignatureAlgorithm = "HS512"
	RS256 SignatureAlgorithm = "RS256"
	RS384 SignatureAlgorithm = "RS384"
	RS512 SignatureAlgorithm = "RS512"
	ES256 SignatureAlgorithm = "ES256"
	ES384 SignatureAlgorithm = "ES384"
	ES512 SignatureAlgorithm = "ES512"
	PS256 SignatureAlgorithm = "PS256"
	PS384 SignatureAlgorithm = "PS384"
	PS512 SignatureAlgorithm = "PS512"
	EdDSA SignatureAlgorithm = "EdDSA"
	None  SignatureAlgorithm = "none"
)

func (alg SignatureAlgorithm) String() string { return string(alg) }

// KeyManagementAlgorithm names a JWE "alg" value, i.e. a key-management
// mode.
type KeyManagementAlgorithm string

const (
	RSA1_5             KeyManagementAlgorithm = "RSA1_5"
	RSA_OAEP           KeyManagementAlgorithm = "RSA-OAEP"
	RSA_OAEP_256       KeyManagementAlgorithm = "RSA-OAEP-256"
	A128KW             KeyManagementAlgorithm = "A128KW"
	A192KW             KeyManagementAlgorithm = "A192KW"
	A256KW             KeyManagementAlgorithm = "A256KW"
	Direct             KeyManagementAlgorithm = "dir"
	ECDH_ES            KeyManagementAlgorithm = "ECDH-ES"
	ECDH_ES_A128KW     KeyManagementAlgorithm = "ECDH-ES+A128KW"
	ECDH_ES_A192KW     KeyManagementAlgorithm = "ECDH-ES+A192KW"
	ECDH_ES_A256KW     KeyManagementAlgorithm = "ECDH-ES+A256KW"
	A128GCMKW          KeyManagementAlgorithm = "A128GCMKW"
	A192GCMKW          KeyManagementAlgorithm = "A192GCMKW"
	A256GCMKW          KeyManagementAlgorithm = "A256GCMKW"
	PBES2_HS256_A128KW KeyManagementAlgorithm = "PBES2-HS256+A128KW"
	PBES2_HS384_A192KW KeyManagementAlgorithm = "PBES2-HS384+A192KW"
	PBES2_HS512_A256KW KeyManagementAlgorithm = "PBES2-HS512+A256KW"
)

func (alg KeyManagementAlgorithm) String() string { return string(alg) }

// EncryptionAlgorithm names a JWE "enc" value, i.e. a content encryption
// algorithm.
type EncryptionAlgorithm string

const (
	A128CBC_HS256 EncryptionAlgorithm = "A128CBC-HS256"
	A192CBC_HS384 EncryptionAlgorithm = "A192CBC-HS384"
	A256CBC_HS512 EncryptionAlgorithm = "A256CBC-HS512"
	A128GCM       EncryptionAlgorithm = "A128GCM"
	A192GCM       EncryptionAlgorithm = "A192GCM"
	A256GCM       EncryptionAlgorithm = "A256GCM"
)

func (enc EncryptionAlgorithm) String() string { return string(enc) }

// CompressionAlgorithm names a JWE "zip" value.
type CompressionAlgorithm string

const (
	DEF CompressionAlgorithm = "DEF"
)

// KeyType names a JWK "kty" value.
type KeyType string

const (
	KeyTypeEC  KeyType = "EC"
	KeyTypeRSA KeyType = "RSA"
	KeyTypeOKP KeyType = "OKP"
	KeyTypeOct KeyType = "oct"
)

// EllipticCurve names a JWK "crv" value.
type EllipticCurve string

const (
	P256    EllipticCurve = "P-256"
	P384    EllipticCurve = "P-384"
	P521    EllipticCurve = "P-521"
	Ed25519 EllipticCurve = "Ed25519"
)

// JSON Web Signature and Encryption Header Parameters, as registered with
// IANA (https://www.iana.org/assignments/jose/jose.xhtml).
const (
	AlgorithmKey                    = "alg"
	EncryptionAlgorithmKey          = "enc"
	CompressionAlgorithmKey         = "zip"
	JWKSetURLKey                    = "jku"
	JSONWebKeyKey                   = "jwk"
	KeyIDKey                        = "kid"
	X509URLKey                      = "x5u"
	X509CertificateChainKey         = "x5c"
	X509CertificateSHA1ThumbprintKey   = "x5t"
	X509CertificateSHA256ThumbprintKey = "x5t#S256"
	TypeKey                         = "typ"
	ContentTypeKey                  = "cty"
	CriticalKey                     = "crit"
	EphemeralPublicKeyKey           = "epk"
	AgreementPartyUInfoKey          = "apu"
	AgreementPartyVInfoKey          = "apv"
	InitializationVectorKey         = "iv"
	AuthenticationTagKey            = "tag"
	PBES2SaltInputKey               = "p2s"
	PBES2CountKey                   = "p2c"
	Base64URLEncodePayloadKey       = "b64"
	URLKey                          = "url"
	NonceKey                        = "nonce"
)

// JSON Web Key parameter names, RFC 7517 section 4 plus the type-specific
// parameters of RFC 7518 section 6.
const (
	KeyTypeKey       = "kty"
	PublicKeyUseKey  = "use"
	KeyOpsKey        = "key_ops"
	AlgorithmParamKey = "alg"
	KeyIDParamKey    = "kid"

	RSAModulusKey         = "n"
	RSAExponentKey        = "e"
	RSAPrivateExponentKey = "d"
	RSAPrimePKey          = "p"
	RSAPrimeQKey          = "q"
	RSAPrimeExponentPKey  = "dp"
	RSAPrimeExponentQKey  = "dq"
	RSACRTCoefficientKey  = "qi"

	ECCurveKey      = "crv"
	ECXCoordinateKey = "x"
	ECYCoordinateKey = "y"
	ECPrivateKeyKey = "d"

	OKPCurveKey     = "crv"
	OKPPublicKeyKey = "x"
	OKPPrivateKeyKey = "d"

	SymmetricKeyValueKey = "k"
)
