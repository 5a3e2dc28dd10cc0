// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

// esearchOK is a typical esearch reply with history enabled.
const esearchOK = `<?xml version="1.0" encoding="UTF-8" ?>
<!DOCTYPE eSearchResult PUBLIC "-//NLM//DTD esearch 20060628//EN" "https://eutils.ncbi.nlm.nih.gov/eutils/dtd/20060628/esearch.dtd">
<eSearchResult>
	<Count>1234</Count>
	<RetMax>3</RetMax>
	<RetStart>0</RetStart>
	<QueryKey>1</QueryKey>
	<WebEnv>MCID_6512abc</WebEnv>
	<IdList><Id>34000001</Id><Id>34000002</Id><Id>34000003</Id></IdList>
	<TranslationSet/>
	<TranslationStack>
		<TermSet><Term>cancer[All Fields]</Term><Field>All Fields</Field><Count>99</Count><Explode>N</Explode></TermSet>
	</TranslationStack>
	<QueryTranslation>"cancer"[All Fields]</QueryTranslation>
</eSearchResult>`

// esearchNoMatches is the reply for a term that matches nothing.
const esearchNoMatches = `<?xml version="1.0" encoding="UTF-8" ?>
<eSearchResult>
	<Count>0</Count>
	<RetMax>0</RetMax>
	<RetStart>0</RetStart>
	<QueryKey>1</QueryKey>
	<WebEnv>MCID_empty</WebEnv>
	<IdList/>
	<ErrorList><PhraseNotFound>zzzqqq</PhraseNotFound></ErrorList>
</eSearchResult>`

// esearchNoWebEnv omits the history tokens.
const esearchNoWebEnv = `<?xml version="1.0" encoding="UTF-8" ?>
<eSearchResult>
	<Count>5</Count>
	<RetMax>3</RetMax>
	<IdList><Id>1</Id></IdList>
</eSearchResult>`

// esearchError is what NCBI sends for an invalid request.
const esearchError = `<?xml version="1.0" encoding="UTF-8" ?>
<eSearchResult><ERROR>Invalid query</ERROR></eSearchResult>`

// efetchTwoArticles holds a fully populated citation and a sparse one.
const efetchTwoArticles = `<?xml version="1.0" ?>
<!DOCTYPE PubmedArticleSet PUBLIC "-//NLM//DTD PubMedArticle, 1st January 2025//EN" "https://dtd.nlm.nih.gov/ncbi/pubmed/out/pubmed_250101.dtd">
<PubmedArticleSet>
<PubmedArticle>
	<MedlineCitation Status="MEDLINE" Owner="NLM">
		<PMID Version="1">34000001</PMID>
		<Article PubModel="Print">
			<Journal>
				<ISSN IssnType="Electronic">1234-5678</ISSN>
				<JournalIssue CitedMedium="Internet">
					<Volume>12</Volume>
					<PubDate><Year>2021</Year><Month>May</Month><Day>3</Day></PubDate>
				</JournalIssue>
				<Title>Journal of Immunotherapy</Title>
				<ISOAbbreviation>J Immunother</ISOAbbreviation>
			</Journal>
			<ArticleTitle>Checkpoint inhibitors in <i>solid</i> tumours.</ArticleTitle>
			<Abstract>
				<AbstractText Label="BACKGROUND">Immune checkpoints matter.</AbstractText>
				<AbstractText Label="RESULTS">Response rates improved.</AbstractText>
			</Abstract>
			<AuthorList CompleteYN="Y">
				<Author ValidYN="Y"><LastName>Smith</LastName><ForeName>John</ForeName><Initials>J</Initials></Author>
				<Author ValidYN="Y"><LastName>Doe</LastName></Author>
				<Author ValidYN="Y"><CollectiveName>Immunotherapy Study Group</CollectiveName></Author>
			</AuthorList>
		</Article>
		<CommentsCorrectionsList>
			<CommentsCorrections RefType="CommentIn"><PMID Version="1">39999999</PMID></CommentsCorrections>
		</CommentsCorrectionsList>
	</MedlineCitation>
</PubmedArticle>
<PubmedArticle>
	<MedlineCitation Status="MEDLINE" Owner="NLM">
		<PMID Version="1">34000002</PMID>
		<Article PubModel="Print">
			<Journal>
				<JournalIssue CitedMedium="Print">
					<PubDate><Year>2019</Year></PubDate>
				</JournalIssue>
			</Journal>
		</Article>
	</MedlineCitation>
</PubmedArticle>
</PubmedArticleSet>`

// efetchOneBadArticle places a citation without a PMID between two good ones.
const efetchOneBadArticle = `<?xml version="1.0" ?>
<PubmedArticleSet>
<PubmedArticle><MedlineCitation><PMID>1</PMID><Article><ArticleTitle>First</ArticleTitle></Article></MedlineCitation></PubmedArticle>
<PubmedArticle><MedlineCitation><Article><ArticleTitle>No identifier</ArticleTitle></Article></MedlineCitation></PubmedArticle>
<PubmedArticle><MedlineCitation><PMID>3</PMID><Article><ArticleTitle>Third</ArticleTitle></Article></MedlineCitation></PubmedArticle>
</PubmedArticleSet>`

// efetchBook is a PubmedBookArticle as returned for NCBI Bookshelf entries.
const efetchBook = `<?xml version="1.0" ?>
<PubmedArticleSet>
<PubmedBookArticle>
	<BookDocument>
		<PMID Version="1">20301295</PMID>
		<Book>
			<Publisher><PublisherName>University of Washington, Seattle</PublisherName></Publisher>
			<BookTitle book="gene">GeneReviews</BookTitle>
			<PubDate><Year>1993</Year></PubDate>
		</Book>
		<Abstract><AbstractText>Clinical characteristics.</AbstractText></Abstract>
	</BookDocument>
</PubmedBookArticle>
</PubmedArticleSet>`

// efetchChinese carries non-ASCII text that must survive serialization.
const efetchChinese = `<?xml version="1.0" ?>
<PubmedArticleSet>
<PubmedArticle><MedlineCitation><PMID>555</PMID><Article>
	<Journal><Title>中华医学杂志</Title></Journal>
	<ArticleTitle>肺癌免疫治疗 &amp; outcomes &lt;review&gt;</ArticleTitle>
</Article></MedlineCitation></PubmedArticle>
</PubmedArticleSet>`

const efetchEmpty = `<?xml version="1.0" ?>
<PubmedArticleSet></PubmedArticleSet>`
